package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/account"
)

type MeHandler struct {
	accounts *account.Accounts
}

func NewMeHandler(accounts *account.Accounts) *MeHandler {
	return &MeHandler{accounts: accounts}
}

type UpdateMeRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Password  *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	user, err := h.accounts.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	claims, _ := middleware.ClaimsFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"claims": claims,
	})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateMeRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Update(c.Request.Context(), account.UpdateInput{
		ID:        currentUserID(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		ActorID:   actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
