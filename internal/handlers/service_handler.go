package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
)

type ServiceHandler struct {
	catalog *catalog.Catalog
}

func NewServiceHandler(c *catalog.Catalog) *ServiceHandler {
	return &ServiceHandler{catalog: c}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description" binding:"max=255"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
	Active      *bool   `json:"active,omitempty"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	DurationMin *int     `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

// List serves the active catalog. Staff may pass all=true to include
// inactive services.
func (h *ServiceHandler) List(c *gin.Context) {
	f := catalog.Filter{
		Query: c.Query("query"),
		Sort:  c.Query("sort"),
	}

	var err error
	if f.MinPrice, err = optionalFloatQuery(c, "min_price"); err != nil {
		httperr.Respond(c, err)
		return
	}
	if f.MaxPrice, err = optionalFloatQuery(c, "max_price"); err != nil {
		httperr.Respond(c, err)
		return
	}
	all, err := boolQuery(c, "all")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	f.IncludeInactive = all && (currentRole(c) == models.RoleBarber || isAdmin(c))

	services, err := h.catalog.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.Create(c.Request.Context(), catalog.ServiceInput{
		Name:        &req.Name,
		Description: &req.Description,
		DurationMin: &req.DurationMin,
		Price:       &req.Price,
		Active:      req.Active,
		ActorID:     actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.catalog.Update(c.Request.Context(), id, catalog.ServiceInput{
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      req.Active,
		ActorID:     actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
