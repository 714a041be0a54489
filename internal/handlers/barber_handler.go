package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/imageproc"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/barber"
)

type BarberHandler struct {
	barbers *barber.Barbers
}

func NewBarberHandler(barbers *barber.Barbers) *BarberHandler {
	return &BarberHandler{barbers: barbers}
}

type CreateBarberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Bio    string `json:"bio" binding:"max=500"`
}

type UpdateBarberRequest struct {
	Bio string `json:"bio" binding:"max=500"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *BarberHandler) List(c *gin.Context) {
	list, err := h.barbers.List(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *BarberHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	b, err := h.barbers.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ======================================================
// ADMIN
// ======================================================

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.barbers.Create(c.Request.Context(), req.UserID, req.Bio, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BarberHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.barbers.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// OWNER OR ADMIN
// ======================================================

// owned answers 404 itself when the caller may not manage barber id.
func (h *BarberHandler) owned(c *gin.Context) (uint, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return 0, false
	}
	if isAdmin(c) {
		return id, true
	}
	b, err := h.barbers.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return 0, false
	}
	if b.UserID != currentUserID(c) {
		httperr.Respond(c, httperr.ErrNotFound("barber"))
		return 0, false
	}
	return id, true
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}
	var req UpdateBarberRequest
	if !bindJSON(c, &req) {
		return
	}
	b, err := h.barbers.UpdateBio(c.Request.Context(), id, req.Bio, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UploadPhoto takes a multipart "photo" field.
func (h *BarberHandler) UploadPhoto(c *gin.Context) {
	id, ok := h.owned(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, imageproc.MaxUploadBytes+1<<10)
	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Multipart field 'photo' is required.")
		return
	}
	if fh.Size > imageproc.MaxUploadBytes {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Photo is too large.")
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Photo could not be read.")
		return
	}
	defer f.Close()

	b, err := h.barbers.UploadPhoto(c.Request.Context(), id, f, actorID(c))
	if err != nil {
		if errors.Is(err, barber.ErrStorageDisabled) {
			httperr.Write(c, http.StatusServiceUnavailable, "storage_unavailable", "Photo storage is not configured.")
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
