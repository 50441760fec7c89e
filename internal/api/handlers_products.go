package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "macrolog/internal/errors"
	"macrolog/internal/models"
	"macrolog/internal/nutrition"
	"macrolog/internal/pagination"
	"macrolog/internal/store"
)

type createProductRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=50"`
	Proteins      *float64 `json:"proteins" validate:"required,gte=0"`
	Carbohydrates *float64 `json:"carbohydrates" validate:"required,gte=0"`
	Fats          *float64 `json:"fats" validate:"required,gte=0"`
	Barcode       *string  `json:"barcode" validate:"omitempty,max=20"`
	Description   *string  `json:"description"`
}

type updateProductRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=1,max=50"`
	Proteins      *float64 `json:"proteins" validate:"omitempty,gte=0"`
	Carbohydrates *float64 `json:"carbohydrates" validate:"omitempty,gte=0"`
	Fats          *float64 `json:"fats" validate:"omitempty,gte=0"`
	Barcode       *string  `json:"barcode" validate:"omitempty,max=20"`
	Description   *string  `json:"description"`
}

type productFromRecipeRequest struct {
	RecipeID    string   `json:"recipe_id" validate:"required,uuid"`
	Title       string   `json:"title" validate:"required,min=1,max=50"`
	TotalWeight *float64 `json:"total_weight" validate:"omitempty,gt=0"`
	Barcode     *string  `json:"barcode" validate:"omitempty,max=20"`
	Description *string  `json:"description"`
}

type productResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Proteins      float64   `json:"proteins"`
	Carbohydrates float64   `json:"carbohydrates"`
	Fats          float64   `json:"fats"`
	Calories      float64   `json:"calories"`
	Barcode       *string   `json:"barcode"`
	Description   *string   `json:"description"`
	UserID        uuid.UUID `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type listResponse[T any] struct {
	Data []T             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

func toProductResponse(m models.Product) productResponse {
	return productResponse{
		ID:            m.ID,
		Title:         m.Title,
		Proteins:      m.Proteins,
		Carbohydrates: m.Carbohydrates,
		Fats:          m.Fats,
		Calories:      nutrition.Calories(m.Proteins, m.Carbohydrates, m.Fats),
		Barcode:       m.Barcode,
		Description:   m.Description,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func listParamsFromQuery(r *http.Request) store.ListParams {
	q := r.URL.Query()
	return store.ListParams{
		Params: pagination.Params{
			Limit:     atoiOrZero(q.Get("limit")),
			Cursor:    q.Get("cursor"),
			SortField: q.Get("sortField"),
			SortOrder: pagination.Order(q.Get("sortOrder")),
		},
		Search: q.Get("search"),
	}
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	products, meta, err := a.store.ListProducts(r.Context(), identity.UserID, listParamsFromQuery(r))
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]productResponse, 0, len(products))
	for _, p := range products {
		data = append(data, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, listResponse[productResponse]{Data: data, Meta: meta})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}

	product := models.Product{
		ID:            uuid.New(),
		Title:         req.Title,
		Proteins:      *req.Proteins,
		Carbohydrates: *req.Carbohydrates,
		Fats:          *req.Fats,
		Barcode:       req.Barcode,
		Description:   req.Description,
		UserID:        identity.UserID,
	}
	if err := a.store.CreateProduct(r.Context(), &product); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (a *API) handleReadProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, apperrors.Validation("product id must be a valid UUID"))
		return
	}

	product, err := a.store.ProductByID(r.Context(), identity.UserID, productID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, apperrors.Validation("product id must be a valid UUID"))
		return
	}

	var req updateProductRequest
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
	if req.Proteins != nil {
		updates["proteins"] = *req.Proteins
	}
	if req.Carbohydrates != nil {
		updates["carbohydrates"] = *req.Carbohydrates
	}
	if req.Fats != nil {
		updates["fats"] = *req.Fats
	}
	if req.Barcode != nil {
		updates["barcode"] = *req.Barcode
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	product, err := a.store.UpdateProduct(r.Context(), identity.UserID, productID, updates)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, apperrors.Validation("product id must be a valid UUID"))
		return
	}

	if err := a.store.DeleteProduct(r.Context(), identity.UserID, productID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "Product deleted successfully"})
}

// handleCreateProductFromRecipe collapses one of the caller's recipes into a
// new product whose macros are the quantity-weighted aggregate of the recipe
// ingredients, normalized per 100g of either the summed ingredient weight or
// the client-supplied total cooked weight.
func (a *API) handleCreateProductFromRecipe(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}

	var req productFromRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}
	if err := a.validate.Validate(req); err != nil {
		respondError(w, err)
		return
	}
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		respondError(w, apperrors.Validation("recipe id must be a valid UUID"))
		return
	}

	recipe, err := a.store.RecipeByID(r.Context(), identity.UserID, recipeID)
	if err != nil {
		respondError(w, err)
		return
	}

	entries := make([]nutrition.Entry, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		entries = append(entries, nutrition.Entry{
			Profile: nutrition.Profile{
				Proteins:      item.Product.Proteins,
				Carbohydrates: item.Product.Carbohydrates,
				Fats:          item.Product.Fats,
			},
			Quantity: item.Quantity,
		})
	}

	profile, err := nutrition.Aggregate(entries, req.TotalWeight)
	if err != nil {
		respondError(w, apperrors.Validation(err.Error()))
		return
	}

	product := models.Product{
		ID:            uuid.New(),
		Title:         req.Title,
		Proteins:      profile.Proteins,
		Carbohydrates: profile.Carbohydrates,
		Fats:          profile.Fats,
		Barcode:       req.Barcode,
		Description:   req.Description,
		UserID:        identity.UserID,
	}
	if err := a.store.CreateProduct(r.Context(), &product); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (a *API) handleRecipesByProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(r.Context())
	if !ok {
		respondError(w, apperrors.Unauthorized("unauthorized"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, apperrors.Validation("product id must be a valid UUID"))
		return
	}

	params := listParamsFromQuery(r)
	recipes, meta, err := a.store.RecipesByProduct(r.Context(), identity.UserID, productID, params.Params)
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
