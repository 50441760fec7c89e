package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/pagination"
)

// cursorRow carries the columns needed to locate a cursor's position in the
// composite (owner partition, sort field, id) ordering. Products and recipes
// both expose this column set.
type cursorRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	Title     string
}

func (r cursorRow) sortValue(field string) any {
	switch field {
	case "title":
		return r.Title
	case "updated_at":
		return r.UpdatedAt
	case "id":
		return r.ID
	default:
		return r.CreatedAt
	}
}

func noScope(db *gorm.DB) *gorm.DB { return db }

// owned scopes single-resource reads and writes to rows the caller owns. A
// row owned by someone else is indistinguishable from an absent one.
func owned(callerID, id uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ? AND user_id = ?", id, callerID)
	}
}

// titleSearch applies a case-insensitive, unanchored substring match.
func titleSearch(search string) func(*gorm.DB) *gorm.DB {
	if search == "" {
		return noScope
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("title ILIKE ?", "%"+search+"%")
	}
}

// ownerFirst orders shared listings so the caller's own rows come before
// everyone else's, then by the requested sort key, with id descending as the
// deterministic tie-break. The caller id travels as a bind parameter instead
// of being spliced into the SQL text.
func ownerFirst(callerID uuid.UUID, p pagination.Params) func(*gorm.DB) *gorm.DB {
	orderSQL := fmt.Sprintf("(user_id <> ?) ASC, %s %s, id DESC", p.SortField, p.SortOrder)
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                orderSQL,
				Vars:               []any{callerID},
				WithoutParentheses: true,
			},
		})
	}
}

// cursorBound restricts a listing to rows strictly after the cursor row's
// position under the ownerFirst ordering. The cursor is the id of the last
// row of the previous page; its partition and sort value are looked up so
// the bound stays correct even when the sort field has duplicates. When the
// cursor row has been deleted in the meantime its exact position is gone and
// the bound degrades to a plain id comparison.
func (s *Store) cursorBound(ctx context.Context, table string, callerID uuid.UUID, p pagination.Params) (func(*gorm.DB) *gorm.DB, error) {
	if p.Cursor == "" {
		return noScope, nil
	}
	cursorID, err := uuid.Parse(p.Cursor)
	if err != nil {
		return nil, apperrors.Validation("cursor must be a valid UUID")
	}

	var row cursorRow
	err = s.db.WithContext(ctx).
		Table(table).
		Select("id", "user_id", "created_at", "updated_at", "title").
		Where("id = ?", cursorID).
		Take(&row).Error
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("id < ?", cursorID)
		}, nil
	}
	if err != nil {
		return nil, apperrors.Internal("resolve cursor", err)
	}

	cmp := "<"
	if p.SortOrder == pagination.Asc {
		cmp = ">"
	}

	field := p.SortField
	cursorNotOwner := row.UserID != callerID
	sortVal := row.sortValue(field)

	// A row follows the cursor when it is in a later owner partition, or in
	// the same partition and strictly after on the sort field, or tied on
	// the sort field with a smaller id.
	boundSQL := fmt.Sprintf(
		"((user_id <> ?) > ? OR ((user_id <> ?) = ? AND (%[1]s %[2]s ? OR (%[1]s = ? AND id < ?))))",
		field, cmp,
	)
	vars := []any{callerID, cursorNotOwner, callerID, cursorNotOwner, sortVal, sortVal, row.ID}

	return func(db *gorm.DB) *gorm.DB {
		return db.Where(boundSQL, vars...)
	}, nil
}
