package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
	"macrolog/internal/pagination"
)

var productSortFields = []string{"created_at", "updated_at", "title", "id"}

// ListProducts returns one page of products visible to the caller: every row
// matching the filter is eligible, the caller's own rows ordered first.
func (s *Store) ListProducts(ctx context.Context, callerID uuid.UUID, params ListParams) ([]models.Product, pagination.Meta, error) {
	p := params.Params.Normalized(productSortFields...)

	bound, err := s.cursorBound(ctx, "products", callerID, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.Product
	err = s.db.WithContext(ctx).
		Scopes(bound, titleSearch(params.Search), ownerFirst(callerID, p)).
		Limit(p.FetchLimit()).
		Find(&rows).Error
	if err != nil {
		return nil, pagination.Meta{}, apperrors.Internal("list products", err)
	}

	rows, meta := pagination.Trim(rows, p.Limit, func(m models.Product) string { return m.ID.String() })
	return rows, meta, nil
}

// CreateProduct inserts a product owned by the caller.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return translateWrite(err, "product")
	}
	return nil
}

// ProductByID fetches a single owned product.
func (s *Store) ProductByID(ctx context.Context, callerID, id uuid.UUID) (models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Scopes(owned(callerID, id)).First(&product).Error
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, apperrors.NotFound("product not found")
	}
	if err != nil {
		return models.Product{}, apperrors.Internal("fetch product", err)
	}
	return product, nil
}

// UpdateProduct applies a partial update to an owned product and returns the
// resulting row.
func (s *Store) UpdateProduct(ctx context.Context, callerID, id uuid.UUID, updates map[string]any) (models.Product, error) {
	if len(updates) == 0 {
		return s.ProductByID(ctx, callerID, id)
	}

	var product models.Product
	res := s.db.WithContext(ctx).
		Model(&product).
		Clauses(clause.Returning{}).
		Scopes(owned(callerID, id)).
		Updates(updates)
	if res.Error != nil {
		return models.Product{}, translateWrite(res.Error, "product")
	}
	if res.RowsAffected == 0 {
		return models.Product{}, apperrors.NotFound("product not found")
	}
	return product, nil
}

// DeleteProduct removes an owned product. Join rows referencing it cascade.
func (s *Store) DeleteProduct(ctx context.Context, callerID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(owned(callerID, id)).Delete(&models.Product{})
	if res.Error != nil {
		return apperrors.Internal("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("product not found")
	}
	return nil
}
