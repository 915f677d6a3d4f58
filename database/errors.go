package database

import (
	"errors"
	"fmt"

	"github.com/rpupo63/quickdialer/errs"
	"gorm.io/gorm"
)

// DefaultPageSize applies when a listing is asked for a non-positive page size.
const DefaultPageSize = 20

// ErrUnknownTag is returned when a tag slug does not name an existing tag.
var ErrUnknownTag = fmt.Errorf("unknown tag slug: %w", errs.ErrNotFound)

// translateError maps GORM's driver-independent errors onto errs sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", errs.ErrUniqueConstraintViolation, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", errs.ErrForeignKeyConstraint, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	}
	return err
}
