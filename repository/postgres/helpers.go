package postgres

import (
	"errors"

	"github.com/catalogd/backend/domain"
)

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

// storageErr classifies database failures without double-wrapping errors
// that already carry a domain code.
func storageErr(msg string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeStorage, msg, err)
}
