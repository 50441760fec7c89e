package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
	"macrolog/internal/nutrition"
)

type recipeItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type createRecipeRequest struct {
	Title       string              `json:"title" validate:"required,min=1,max=50"`
	Description *string             `json:"description"`
	Products    []recipeItemRequest `json:"products" validate:"required,min=1,dive"`
}

type updateRecipeRequest struct {
	Title       *string             `json:"title" validate:"omitempty,min=1,max=50"`
	Description *string             `json:"description"`
	Products    []recipeItemRequest `json:"products" validate:"omitempty,min=1,dive"`
}

type recipeItemResponse struct {
	Product  productResponse `json:"product"`
	Quantity float64         `json:"quantity"`
}

type recipeResponse struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	UserID      uuid.UUID            `json:"user_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Products    []recipeItemResponse `json:"products,omitempty"`
}

// recipeDetailResponse adds the per-100g aggregate of the ingredient list,
// recomputed on every read.
type recipeDetailResponse struct {
	recipeResponse
	Proteins      float64 `json:"proteins"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fats          float64 `json:"fats"`
	Calories      float64 `json:"calories"`
}

func toRecipeResponse(m models.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, item := range m.Ingredients {
		resp.Products = append(resp.Products, recipeItemResponse{
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
		})
	}
	return resp
}

func toRecipeDetailResponse(m models.Recipe) recipeDetailResponse {
	entries := make([]nutrition.Entry, 0, len(m.Ingredients))
	for _, item := range m.Ingredients {
		entries = append(entries, nutrition.Entry{
			Profile: nutrition.Profile{
				Proteins:      item.Product.Proteins,
				Carbohydrates: item.Product.Carbohydrates,
				Fats:          item.Product.Fats,
			},
			Quantity: item.Quantity,
		})
	}

	// Quantities are constrained positive, so the aggregate only fails on a
	// recipe with no ingredients; report zeros rather than an error.
	profile, err := nutrition.Aggregate(entries, nil)
	if err != nil {
		profile = nutrition.Profile{}
	}

	return recipeDetailResponse{
		recipeResponse: toRecipeResponse(m),
		Proteins:       profile.Proteins,
		Carbohydrates:  profile.Carbohydrates,
		Fats:           profile.Fats,
		Calories:       profile.Calories(),
	}
}

func recipeItems(recipeID uuid.UUID, reqs []recipeItemRequest) ([]models.RecipeProduct, error) {
	items := make([]models.RecipeProduct, 0, len(reqs))
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	for _, req := range reqs {
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			return nil, apperrors.Validation("product id must be a valid UUID")
		}
		if _, dup := seen[productID]; dup {
			return nil, apperrors.Validation("duplicate product in recipe")
		}
		seen[productID] = struct{}{}
		items = append(items, models.RecipeProduct{
			ProductID: productID,
			RecipeID:  recipeID,
			Quantity:  req.Quantity,
		})
	}
	return items, nil
}

func (a *API) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	recipes, meta, err := a.store.ListRecipes(r.Context(), identity.UserID, listParamsFromQuery(r))
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]recipeResponse, 0, len(recipes))
	for _, rec := range recipes {
		data = append(data, toRecipeResponse(rec))
	}
	respondJSON(w, http.StatusOK, listResponse[recipeResponse]{Data: data, Meta: meta})
}

func (a *API) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req createRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}

	recipe := models.Recipe{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		UserID:      identity.UserID,
	}
	items, err := recipeItems(recipe.ID, req.Products)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := a.store.CreateRecipe(r.Context(), &recipe, items); err != nil {
		respondError(w, err)
		return
	}

	created, err := a.store.RecipeByID(r.Context(), identity.UserID, recipe.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecipeDetailResponse(created))
}

func (a *API) handleReadRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		respondError(w, apperrors.Validation("recipe id must be a valid UUID"))
		return
	}

	recipe, err := a.store.RecipeByID(r.Context(), identity.UserID, recipeID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toRecipeDetailResponse(recipe))
}

func (a *API) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		respondError(w, apperrors.Validation("recipe id must be a valid UUID"))
		return
	}

	var req updateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	var items []models.RecipeProduct
	replaceItems := req.Products != nil
	if replaceItems {
		if items, err = recipeItems(recipeID, req.Products); err != nil {
			respondError(w, err)
			return
		}
	}

	if err := a.store.UpdateRecipe(r.Context(), identity.UserID, recipeID, updates, items, replaceItems); err != nil {
		respondError(w, err)
		return
	}

	updated, err := a.store.RecipeByID(r.Context(), identity.UserID, recipeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRecipeDetailResponse(updated))
}

func (a *API) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		respondError(w, apperrors.Validation("recipe id must be a valid UUID"))
		return
	}

	if err := a.store.DeleteRecipe(r.Context(), identity.UserID, recipeID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Recipe deleted successfully"})
}
