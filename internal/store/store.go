// Package store is the persistence layer over PostgreSQL via GORM. It is the
// only package that touches the database; persistence failures are translated
// into domain errors before they reach a handler.
package store

import (
	"gorm.io/gorm"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/pagination"
)

// Store holds the shared GORM handle used by all data access methods.
type Store struct {
	db *gorm.DB
}

// New wraps a connected GORM session.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ListParams extends the pagination window with a title substring filter.
type ListParams struct {
	pagination.Params
	Search string
}

// translateWrite maps GORM write failures onto the domain taxonomy.
// Uniqueness violations become conflicts (409) rather than opaque internal
// errors; broken ingredient references surface as validation failures.
func translateWrite(err error, entity string) error {
	switch {
	case apperrors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(entity + " already exists")
	case apperrors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Validation(entity + " references a row that does not exist")
	case apperrors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(entity + " not found")
	default:
		return apperrors.Internal("persist "+entity, err)
	}
}
