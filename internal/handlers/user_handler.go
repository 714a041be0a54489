package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/account"
	appointmentuc "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type UserHandler struct {
	accounts *account.Accounts
}

func NewUserHandler(accounts *account.Accounts) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// --------- Requests ---------

type CreateUserRequest struct {
	FirstName string      `json:"first_name" binding:"required"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=6"`
	Phone     string      `json:"phone"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=client barber admin"`
}

type UpdateUserRequest struct {
	FirstName *string      `json:"first_name,omitempty"`
	LastName  *string      `json:"last_name,omitempty"`
	Email     *string      `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string      `json:"phone,omitempty"`
	Password  *string      `json:"password,omitempty" binding:"omitempty,min=6"`
	Role      *models.Role `json:"role,omitempty" binding:"omitempty,oneof=client barber admin"`
}

// ======================================================
// LIST / GET (barber, admin)
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err == nil {
		err = appointmentuc.ValidatePage(page, limit)
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	users, total, err := h.accounts.List(c.Request.Context(), account.ListFilter{
		Page:  page,
		Limit: limit,
		Role:  c.Query("role"),
		Query: c.Query("query"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, users, total, page, limit)
}

// Get lets callers read themselves; staff read anyone.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if id != currentUserID(c) && currentRole(c) == models.RoleClient {
		httperr.Respond(c, httperr.ErrNotFound("user"))
		return
	}

	user, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ======================================================
// WRITE (admin)
// ======================================================

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), account.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Update(c.Request.Context(), account.UpdateInput{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
		ActorID:   actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
