package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/barber"
	scheduleuc "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
)

type ScheduleHandler struct {
	barbers *barber.Barbers
	create  *scheduleuc.CreateSchedule
	list    *scheduleuc.ListSchedules
	get     *scheduleuc.GetSchedule
	update  *scheduleuc.UpdateSchedule
	delete  *scheduleuc.DeleteSchedule
}

func NewScheduleHandler(repo domain.Repository, barbers *barber.Barbers, deps Deps) *ScheduleHandler {
	return &ScheduleHandler{
		barbers: barbers,
		create:  scheduleuc.NewCreateSchedule(repo, deps.Audit),
		list:    scheduleuc.NewListSchedules(repo, deps.Clock),
		get:     scheduleuc.NewGetSchedule(repo),
		update:  scheduleuc.NewUpdateSchedule(repo, deps.Audit),
		delete:  scheduleuc.NewDeleteSchedule(repo, deps.Audit),
	}
}

// --------- Requests ---------

type SlotRequest struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type CreateScheduleRequest struct {
	BarberID  uint          `json:"barber_id" binding:"required"`
	Date      string        `json:"date" binding:"required,date"`
	IsWorking *bool         `json:"is_working"`
	TimeSlots []SlotRequest `json:"time_slots" binding:"dive"`
}

type UpdateScheduleRequest struct {
	IsWorking *bool         `json:"is_working,omitempty"`
	AddSlots  []SlotRequest `json:"add_time_slots,omitempty" binding:"dive"`
}

func slotInputs(in []SlotRequest) []domain.SlotInput {
	out := make([]domain.SlotInput, 0, len(in))
	for _, s := range in {
		out = append(out, domain.SlotInput{Start: s.StartTime, End: s.EndTime})
	}
	return out
}

// canManage reports whether the caller may write schedules of barberID.
func (h *ScheduleHandler) canManage(ctx context.Context, c *gin.Context, barberID uint) (bool, error) {
	if isAdmin(c) {
		return true, nil
	}
	own, err := h.barbers.ByUser(ctx, currentUserID(c))
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return own.ID == barberID, nil
}

// managed loads schedule :id and answers 404 when the caller may not write it.
func (h *ScheduleHandler) managed(c *gin.Context) (uint, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return 0, false
	}
	ctx := c.Request.Context()
	s, err := h.get.Execute(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return 0, false
	}
	allowed, err := h.canManage(ctx, c, s.BarberID)
	if err != nil {
		httperr.Respond(c, err)
		return 0, false
	}
	if !allowed {
		httperr.Respond(c, httperr.ErrNotFound("schedule"))
		return 0, false
	}
	return id, true
}

// ======================================================
// READ (public)
// ======================================================

func (h *ScheduleHandler) List(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	in := scheduleuc.ListSchedulesInput{Page: page, Limit: limit}
	if in.BarberID, err = optionalUintQuery(c, "barber_id"); err != nil {
		httperr.Respond(c, err)
		return
	}
	if in.Upcoming, err = boolQuery(c, "is_upcoming"); err != nil {
		httperr.Respond(c, err)
		return
	}
	if in.Past, err = boolQuery(c, "is_past"); err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, out.Items, out.Total, out.Page, out.Limit)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	s, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ======================================================
// WRITE (barber owner, admin)
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	allowed, err := h.canManage(ctx, c, req.BarberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !allowed {
		httperr.Forbidden(c, "forbidden", "You can only manage your own schedule.")
		return
	}

	working := true
	if req.IsWorking != nil {
		working = *req.IsWorking
	}

	s, err := h.create.Execute(ctx, scheduleuc.CreateScheduleInput{
		BarberID:  req.BarberID,
		Date:      date,
		IsWorking: working,
		Slots:     slotInputs(req.TimeSlots),
		ActorID:   actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := h.managed(c)
	if !ok {
		return
	}
	var req UpdateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.update.Execute(c.Request.Context(), scheduleuc.UpdateScheduleInput{
		ID:        id,
		IsWorking: req.IsWorking,
		AddSlots:  slotInputs(req.AddSlots),
		ActorID:   actorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := h.managed(c)
	if !ok {
		return
	}
	if err := h.delete.Execute(c.Request.Context(), id, actorID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
