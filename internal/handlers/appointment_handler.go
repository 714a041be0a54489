package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/barber"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	barbers *barber.Barbers

	create   *appointment.CreateAppointment
	update   *appointment.UpdateAppointment
	cancel   *appointment.CancelAppointment
	complete *appointment.CompleteAppointment
	delete   *appointment.DeleteAppointment
	get      *appointment.GetAppointment
	list     *appointment.ListAppointments
}

func NewAppointmentHandler(repo domain.Repository, barbers *barber.Barbers, deps Deps) *AppointmentHandler {
	update := appointment.NewUpdateAppointment(repo, deps.Audit, deps.Notifier, deps.Clock, deps.Log)
	return &AppointmentHandler{
		barbers:  barbers,
		create:   appointment.NewCreateAppointment(repo, deps.Audit, deps.Notifier, deps.Log),
		update:   update,
		cancel:   appointment.NewCancelAppointment(update),
		complete: appointment.NewCompleteAppointment(update),
		delete:   appointment.NewDeleteAppointment(repo, deps.Audit),
		get:      appointment.NewGetAppointment(repo),
		list:     appointment.NewListAppointments(repo, deps.Clock),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	UserID      uint   `json:"user_id"`
	BarberID    uint   `json:"barber_id" binding:"required"`
	TimeSlotIDs []uint `json:"time_slot_ids" binding:"required,min=1"`
	ServiceIDs  []uint `json:"service_ids" binding:"required,min=1"`
	Status      string `json:"status" binding:"omitempty,oneof=pending confirmed"`
	Notes       string `json:"notes" binding:"max=255"`
}

type UpdateAppointmentRequest struct {
	UserID      *uint   `json:"user_id,omitempty"`
	BarberID    *uint   `json:"barber_id,omitempty"`
	Status      *string `json:"status,omitempty" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes       *string `json:"notes,omitempty" binding:"omitempty,max=255"`
	TimeSlotIDs []uint  `json:"time_slot_ids,omitempty"`
	ServiceIDs  []uint  `json:"service_ids,omitempty"`
}

// ======================================================
// ACCESS
// ======================================================

// scope is what the caller may see: clients their own bookings, barbers
// the bookings made with them, admins everything.
type scope struct {
	userID   *uint
	barberID *uint
}

func (h *AppointmentHandler) scopeOf(c *gin.Context) (scope, error) {
	switch currentRole(c) {
	case models.RoleAdmin:
		return scope{}, nil
	case models.RoleBarber:
		b, err := h.barbers.ByUser(c.Request.Context(), currentUserID(c))
		if err == nil {
			return scope{barberID: &b.ID}, nil
		}
		if !httperr.IsBusiness(err, httperr.CodeNotFound) {
			return scope{}, err
		}
		// A barber without a profile books like a client.
	}
	id := currentUserID(c)
	return scope{userID: &id}, nil
}

func (s scope) allows(ap *models.Appointment) bool {
	if s.userID != nil && ap.UserID != *s.userID {
		return false
	}
	if s.barberID != nil && ap.BarberID != *s.barberID {
		return false
	}
	return true
}

// clientMayApply accepts a cancellation, optionally with notes, and nothing else.
func clientMayApply(req UpdateAppointmentRequest) bool {
	if req.UserID != nil || req.BarberID != nil || req.TimeSlotIDs != nil || req.ServiceIDs != nil {
		return false
	}
	return req.Status == nil || *req.Status == string(domain.StatusCancelled)
}

// visible loads :id and answers 404 itself when the caller may not see it.
func (h *AppointmentHandler) visible(c *gin.Context) (*models.Appointment, scope, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, scope{}, false
	}
	sc, err := h.scopeOf(c)
	if err != nil {
		httperr.Respond(c, err)
		return nil, sc, false
	}
	ap, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return nil, sc, false
	}
	if !sc.allows(ap) {
		httperr.Respond(c, httperr.ErrNotFound("appointment"))
		return nil, sc, false
	}
	return ap, sc, true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	sc, err := h.scopeOf(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	userID := req.UserID
	switch {
	case sc.userID != nil:
		// Clients always book for themselves.
		userID = *sc.userID
	case userID == 0:
		httperr.BadRequest(c, httperr.CodeInvalidInput, "user_id is required.")
		return
	}
	if sc.barberID != nil && req.BarberID != *sc.barberID {
		httperr.Forbidden(c, "forbidden", "Barbers can only book into their own schedule.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		UserID:      userID,
		BarberID:    req.BarberID,
		TimeSlotIDs: req.TimeSlotIDs,
		ServiceIDs:  req.ServiceIDs,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAppointment(ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	upcoming, err := boolQuery(c, "is_upcoming")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	past, err := boolQuery(c, "is_past")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	h.respondList(c, upcoming, past)
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	h.respondList(c, true, false)
}

func (h *AppointmentHandler) Past(c *gin.Context) {
	h.respondList(c, false, true)
}

func (h *AppointmentHandler) respondList(c *gin.Context, upcoming, past bool) {
	page, limit, err := pageParams(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	in := appointment.ListAppointmentsInput{
		Page:     page,
		Limit:    limit,
		Upcoming: upcoming,
		Past:     past,
	}
	if in.UserID, err = optionalUintQuery(c, "user_id"); err != nil {
		httperr.Respond(c, err)
		return
	}
	if in.BarberID, err = optionalUintQuery(c, "barber_id"); err != nil {
		httperr.Respond(c, err)
		return
	}

	sc, err := h.scopeOf(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if sc.userID != nil {
		in.UserID = sc.userID
	}
	if sc.barberID != nil {
		in.BarberID = sc.barberID
	}

	out, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, dto.NewAppointments(out.Items), out.Total, out.Page, out.Limit)
}

// ======================================================
// GET / UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, _, ok := h.visible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointment(ap))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	current, sc, ok := h.visible(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	if sc.userID != nil && !clientMayApply(req) {
		httperr.Forbidden(c, "forbidden", "Clients can only cancel an appointment.")
		return
	}
	if sc.barberID != nil && req.BarberID != nil && *req.BarberID != *sc.barberID {
		httperr.Forbidden(c, "forbidden", "Barbers cannot hand an appointment to another barber.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), appointment.UpdateAppointmentInput{
		ID:          current.ID,
		UserID:      req.UserID,
		BarberID:    req.BarberID,
		Status:      req.Status,
		Notes:       req.Notes,
		TimeSlotIDs: req.TimeSlotIDs,
		ServiceIDs:  req.ServiceIDs,
		ActorID:     actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointment(ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	current, _, ok := h.visible(c)
	if !ok {
		return
	}
	ap, err := h.cancel.Execute(c.Request.Context(), current.ID, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointment(ap))
}

// Complete is staff only; the route carries the role check.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	current, _, ok := h.visible(c)
	if !ok {
		return
	}
	ap, err := h.complete.Execute(c.Request.Context(), current.ID, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAppointment(ap))
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	deleted, err := h.delete.Execute(c.Request.Context(), id, actorID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.Respond(c, httperr.ErrNotFound("appointment"))
		return
	}
	c.Status(http.StatusNoContent)
}
