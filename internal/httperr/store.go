package httperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	if pgCode(err) == pgUniqueViolation {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite, when the driver does not translate
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsExclusionConflict(err error) bool {
	return pgCode(err) == pgExclusionViolation
}

// FromStore turns a raw store error into a business error. Business errors
// pass through untouched. Timeouts, cancellations, lock and serialization
// failures and anything unknown become a retryable transaction_failure that
// keeps the cause for logging only.
func FromStore(err error) error {
	if err == nil {
		return nil
	}

	var be BusinessError
	if errors.As(err, &be) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound("")
	case IsUniqueViolation(err), IsExclusionConflict(err):
		return BusinessError{Code: CodeConflict, cause: err}
	}

	return ErrTransactionFailure(err)
}

