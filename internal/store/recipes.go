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

var recipeSortFields = []string{"created_at", "updated_at", "title", "id"}

// ListRecipes returns one page of recipes visible to the caller, the
// caller's own rows ordered first.
func (s *Store) ListRecipes(ctx context.Context, callerID uuid.UUID, params ListParams) ([]models.Recipe, pagination.Meta, error) {
	p := params.Params.Normalized(recipeSortFields...)

	bound, err := s.cursorBound(ctx, "recipes", callerID, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	var rows []models.Recipe
	err = s.db.WithContext(ctx).
		Scopes(bound, titleSearch(params.Search), ownerFirst(callerID, p)).
		Limit(p.FetchLimit()).
		Find(&rows).Error
	if err != nil {
		return nil, pagination.Meta{}, apperrors.Internal("list recipes", err)
	}

	rows, meta := pagination.Trim(rows, p.Limit, func(m models.Recipe) string { return m.ID.String() })
	return rows, meta, nil
}

// CreateRecipe inserts the recipe row and its ingredient join rows as one
// atomic unit. Any failure rolls the whole write back.
func (s *Store) CreateRecipe(ctx context.Context, recipe *models.Recipe, items []models.RecipeProduct) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].RecipeID = recipe.ID
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
	if err != nil {
		return translateWrite(err, "recipe")
	}
	return nil
}

// RecipeByID fetches a single owned recipe with its ingredient products.
func (s *Store) RecipeByID(ctx context.Context, callerID, id uuid.UUID) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Scopes(owned(callerID, id)).
		Preload("Ingredients.Product").
		First(&recipe).Error
	if apperrors.Is(err, gorm.ErrRecordNotFound) {
		return models.Recipe{}, apperrors.NotFound("recipe not found")
	}
	if err != nil {
		return models.Recipe{}, apperrors.Internal("fetch recipe", err)
	}
	return recipe, nil
}

// UpdateRecipe applies scalar field changes and, when replaceItems is set,
// swaps the full ingredient list, all inside one transaction. A failed
// ingredient insert also discards the scalar changes.
func (s *Store) UpdateRecipe(ctx context.Context, callerID, id uuid.UUID, updates map[string]any, items []models.RecipeProduct, replaceItems bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&models.Recipe{}).Scopes(owned(callerID, id)).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		} else {
			var count int64
			if err := tx.Model(&models.Recipe{}).Scopes(owned(callerID, id)).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		if !replaceItems {
			return nil
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeProduct{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].RecipeID = id
		}
		return tx.Omit(clause.Associations).Create(&items).Error
	})
	if err != nil {
		return translateWrite(err, "recipe")
	}
	return nil
}

// DeleteRecipe removes an owned recipe; its join rows cascade away.
func (s *Store) DeleteRecipe(ctx context.Context, callerID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Scopes(owned(callerID, id)).Delete(&models.Recipe{})
	if res.Error != nil {
		return apperrors.Internal("delete recipe", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("recipe not found")
	}
	return nil
}

// RecipesByProduct pages through the caller's recipes containing an owned
// product, ordered by title. The cursor bound compares the (title, id) tuple
// so duplicate titles do not break enumeration.
func (s *Store) RecipesByProduct(ctx context.Context, callerID, productID uuid.UUID, p pagination.Params) ([]models.Recipe, pagination.Meta, error) {
	if _, err := s.ProductByID(ctx, callerID, productID); err != nil {
		return nil, pagination.Meta{}, err
	}

	p = p.Normalized("title")
	p.SortField = "title"
	p.SortOrder = pagination.Asc

	q := s.db.WithContext(ctx).
		Where("user_id = ?", callerID).
		Where("id IN (?)", s.db.Model(&models.RecipeProduct{}).Select("recipe_id").Where("product_id = ?", productID)).
		Order("title ASC, id DESC").
		Limit(p.FetchLimit())

	if p.Cursor != "" {
		cursorID, err := uuid.Parse(p.Cursor)
		if err != nil {
			return nil, pagination.Meta{}, apperrors.Validation("cursor must be a valid UUID")
		}

		var row cursorRow
		err = s.db.WithContext(ctx).
			Table("recipes").
			Select("id", "user_id", "created_at", "updated_at", "title").
			Where("id = ?", cursorID).
			Take(&row).Error
		switch {
		case apperrors.Is(err, gorm.ErrRecordNotFound):
			q = q.Where("id < ?", cursorID)
		case err != nil:
			return nil, pagination.Meta{}, apperrors.Internal("resolve cursor", err)
		default:
			q = q.Where("title > ? OR (title = ? AND id < ?)", row.Title, row.Title, row.ID)
		}
	}

	var rows []models.Recipe
	if err := q.Find(&rows).Error; err != nil {
		return nil, pagination.Meta{}, apperrors.Internal("list recipes by product", err)
	}

	rows, meta := pagination.Trim(rows, p.Limit, func(m models.Recipe) string { return m.ID.String() })
	return rows, meta, nil
}
