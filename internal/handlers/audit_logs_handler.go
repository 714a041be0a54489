package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// List is admin only. Filters: action, entity, from, to (YYYY-MM-DD).
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit, err := pageParams(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.ListFilter{
		Page:   page,
		Limit:  limit,
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	if s := c.Query("from"); s != "" {
		from, err := parseDate(s)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		f.From = &from
	}
	if s := c.Query("to"); s != "" {
		to, err := parseDate(s)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		f.To = &to
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, httperr.FromStore(err))
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
