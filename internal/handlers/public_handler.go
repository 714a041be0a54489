package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	availability *appointment.GetAvailability
}

func NewPublicHandler(db *gorm.DB, repo domain.Repository) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: appointment.NewGetAvailability(repo),
	}
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability lists the free slots of barber :id on ?date=YYYY-MM-DD.
func (h *PublicHandler) Availability(c *gin.Context) {
	barberID, ok := idParam(c, "id")
	if !ok {
		return
	}
	raw := c.Query("date")
	if raw == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Query parameter 'date' is required.")
		return
	}
	date, err := parseDate(raw)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID: barberID,
		Date:     date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barber_id": barberID,
		"date":      raw,
		"slots":     slots,
	})
}

////////////////////////////////////////////////////////
// HEALTH
////////////////////////////////////////////////////////

func (h *PublicHandler) Health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
