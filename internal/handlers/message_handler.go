package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	appointmentuc "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type MessageHandler struct {
	db    *gorm.DB
	audit audit.Recorder
	now   func() time.Time
}

func NewMessageHandler(db *gorm.DB, rec audit.Recorder) *MessageHandler {
	return &MessageHandler{db: db, audit: rec, now: time.Now}
}

// --------- Requests ---------

type CreateMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Subject    string `json:"subject" binding:"max=255"`
	Content    string `json:"content" binding:"required"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// --------- Helpers ---------

// load answers 404 itself unless the caller sent or received the message.
func (h *MessageHandler) load(c *gin.Context) (*models.Message, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var m models.Message
	if err := h.db.WithContext(c.Request.Context()).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, httperr.ErrNotFound("message"))
			return nil, false
		}
		httperr.Respond(c, httperr.FromStore(err))
		return nil, false
	}

	me := currentUserID(c)
	if m.SenderID != me && m.ReceiverID != me && !isAdmin(c) {
		httperr.Respond(c, httperr.ErrNotFound("message"))
		return nil, false
	}
	return &m, true
}

// --------- Handlers ---------

func (h *MessageHandler) Create(c *gin.Context) {
	var req CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	var n int64
	if err := h.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", req.ReceiverID).Count(&n).Error; err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}
	if n == 0 {
		httperr.Respond(c, httperr.ErrInvalidReference("receiver"))
		return
	}

	m := models.Message{
		SenderID:   currentUserID(c),
		ReceiverID: req.ReceiverID,
		Subject:    req.Subject,
		Content:    req.Content,
		IsActive:   true,
	}
	if err := h.db.WithContext(ctx).Create(&m).Error; err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   "message_sent",
		Entity:   "message",
		EntityID: &m.ID,
	})
	c.JSON(http.StatusCreated, m)
}

// List returns the caller's inbox, or sent items with box=sent. Inactive
// messages are hidden unless include_inactive=true.
func (h *MessageHandler) List(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err == nil {
		err = appointmentuc.ValidatePage(page, limit)
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	includeInactive, err := boolQuery(c, "include_inactive")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Message{})
	switch c.DefaultQuery("box", "inbox") {
	case "inbox":
		q = q.Where("receiver_id = ?", currentUserID(c))
	case "sent":
		q = q.Where("sender_id = ?", currentUserID(c))
	default:
		httperr.Respond(c, httperr.ErrInvalidInput("box must be inbox or sent"))
		return
	}
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	if unread, _ := boolQuery(c, "unread"); unread {
		q = q.Where("read_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}

	var msgs []models.Message
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&msgs).Error; err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}

	httpresp.Page(c, msgs, total, page, limit)
}

func (h *MessageHandler) Get(c *gin.Context) {
	m, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MessageHandler) SetActive(c *gin.Context) {
	m, ok := h.load(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Model(m).Update("is_active", *req.IsActive).Error; err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}
	m.IsActive = *req.IsActive
	c.JSON(http.StatusOK, m)
}

// MarkRead is idempotent; the first read time is kept.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	m, ok := h.load(c)
	if !ok {
		return
	}
	if m.ReceiverID != currentUserID(c) {
		httperr.Forbidden(c, "forbidden", "Only the receiver can mark a message as read.")
		return
	}

	if m.ReadAt == nil {
		now := h.now().UTC()
		if err := h.db.WithContext(c.Request.Context()).Model(m).Update("read_at", now).Error; err != nil {
			httperr.Respond(c, httperr.FromStore(err))
			return
		}
		m.ReadAt = &now
	}
	c.JSON(http.StatusOK, m)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	m, ok := h.load(c)
	if !ok {
		return
	}
	if m.SenderID != currentUserID(c) && !isAdmin(c) {
		httperr.Forbidden(c, "forbidden", "Only the sender can delete a message.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(m).Error; err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   actorID(c),
		Action:   "message_deleted",
		Entity:   "message",
		EntityID: &m.ID,
	})
	c.Status(http.StatusNoContent)
}
