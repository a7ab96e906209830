package repository

import (
	"errors"
	"fmt"

	"backend/pkg/apperr"

	"gorm.io/gorm"
)

// mapError translates gorm errors into the core taxonomy. Raw store errors
// never cross the repository boundary.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.ErrConflict
	default:
		return fmt.Errorf("%w: %v", apperr.ErrStoreUnavailable, err)
	}
}
