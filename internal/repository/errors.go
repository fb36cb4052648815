package repository

import (
	"fmt"

	"github.com/blaisecz/vitality-tracker/internal/domain"
)

// wrapStorageErr tags database errors so callers can match
// domain.ErrPersistence with errors.Is.
func wrapStorageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
