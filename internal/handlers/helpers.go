package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// --------------------------------------------------
// Caller
// --------------------------------------------------

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

func currentRole(c *gin.Context) models.Role {
	return models.Role(c.GetString(middleware.ContextUserRole))
}

// actorID is what the audit trail records for the caller.
func actorID(c *gin.Context) *uint {
	id := currentUserID(c)
	if id == 0 {
		return nil
	}
	return &id
}

func isAdmin(c *gin.Context) bool {
	return currentRole(c) == models.RoleAdmin
}

// --------------------------------------------------
// Params
// --------------------------------------------------

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Invalid "+name+".")
		return 0, false
	}
	return uint(id), true
}

func optionalUintQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, httperr.ErrInvalidInput("invalid %s", name)
	}
	id := uint(v)
	return &id, nil
}

func optionalFloatQuery(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, httperr.ErrInvalidInput("invalid %s", name)
	}
	return &v, nil
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, httperr.ErrInvalidInput("invalid %s", name)
	}
	return v, nil
}

// pageParams defaults to page 1 and limit 10. Range checks belong to the
// use cases.
func pageParams(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, httperr.ErrInvalidInput("invalid page")
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 0, 0, httperr.ErrInvalidInput("invalid limit")
	}
	return page, limit, nil
}

// parseDate reads YYYY-MM-DD as a calendar day at UTC midnight, the way
// schedule dates are stored.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(validators.DateLayout, s)
	if err != nil {
		return time.Time{}, httperr.ErrInvalidInput("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// --------------------------------------------------
// Binding
// --------------------------------------------------

// bindJSON answers 400 itself when the body does not bind.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Field "+fe.Field()+" failed on '"+fe.Tag()+"'.")
			return false
		}
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Malformed JSON body.")
		return false
	}
	return true
}
