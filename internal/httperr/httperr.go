package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

var messages = map[string]string{
	CodeInvalidInput:       "Invalid request.",
	CodeInvalidReference:   "Referenced record does not exist.",
	CodeSlotAlreadyBooked:  "One or more time slots are already booked.",
	CodeInconsistentSlots:  "Time slots must belong to the barber and share one date.",
	CodeNotFound:           "Record not found.",
	CodeInvalidState:       "Operation not allowed in the current state.",
	CodeConflict:           "Record conflicts with an existing one.",
	CodeTransactionFailure: "Temporary failure, please retry.",
}

func statusFor(code string) int {
	switch code {
	case CodeInvalidInput, CodeInvalidReference:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSlotAlreadyBooked, CodeInconsistentSlots, CodeInvalidState, CodeConflict:
		return http.StatusConflict
	case CodeTransactionFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond renders err. Store causes are never exposed.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Unexpected error.")
		return
	}

	status := statusFor(be.Code)
	msg := messages[be.Code]
	if be.Code == CodeInvalidInput && be.Message != "" {
		msg = be.Message
	}
	if msg == "" {
		msg = "Unexpected error."
	}

	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}

	c.JSON(status, HTTPError{
		Code:    be.Code,
		Message: msg,
		Ref:     be.Ref,
	})
}
