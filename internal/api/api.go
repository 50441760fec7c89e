// Package api exposes the HTTP surface: routing, request validation,
// authentication, and the JSON handlers over the store.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"macrolog/internal/auth"
	"macrolog/internal/models"
	"macrolog/internal/pagination"
	"macrolog/internal/store"
	"macrolog/internal/validation"
)

// UserStore is the account and verification persistence the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error
	VerifyEmail(ctx context.Context, token string) error
}

// TokenStore backs bearer credential issuance and revocation.
type TokenStore interface {
	CreateToken(ctx context.Context, token *models.Token) error
	TokenByValue(ctx context.Context, value string) (models.Token, error)
	RevokeToken(ctx context.Context, userID uuid.UUID, value string) error
}

// ProductStore backs the product CRUD handlers.
type ProductStore interface {
	ListProducts(ctx context.Context, callerID uuid.UUID, params store.ListParams) ([]models.Product, pagination.Meta, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	ProductByID(ctx context.Context, callerID, id uuid.UUID) (models.Product, error)
	UpdateProduct(ctx context.Context, callerID, id uuid.UUID, updates map[string]any) (models.Product, error)
	DeleteProduct(ctx context.Context, callerID, id uuid.UUID) error
}

// RecipeStore backs the recipe CRUD handlers.
type RecipeStore interface {
	ListRecipes(ctx context.Context, callerID uuid.UUID, params store.ListParams) ([]models.Recipe, pagination.Meta, error)
	CreateRecipe(ctx context.Context, recipe *models.Recipe, items []models.RecipeProduct) error
	RecipeByID(ctx context.Context, callerID, id uuid.UUID) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, callerID, id uuid.UUID, updates map[string]any, items []models.RecipeProduct, replaceItems bool) error
	DeleteRecipe(ctx context.Context, callerID, id uuid.UUID) error
	RecipesByProduct(ctx context.Context, callerID, productID uuid.UUID, p pagination.Params) ([]models.Recipe, pagination.Meta, error)
}

// Store is the full persistence surface of the API. *store.Store satisfies it.
type Store interface {
	UserStore
	TokenStore
	ProductStore
	RecipeStore
}

// Mailer sends account verification mail.
type Mailer interface {
	SendVerification(ctx context.Context, to, verificationURL string) error
}

// Config controls runtime behaviour for the API handlers.
type Config struct {
	// AppBaseURL prefixes the verification link embedded in signup mail.
	AppBaseURL string
	// VerificationTokenTTL bounds how long a signup may stay unverified.
	VerificationTokenTTL time.Duration
	// AllowedOrigins is handed to the CORS middleware.
	AllowedOrigins []string
}

// API wires the store, mailer, token manager, and configuration for the
// HTTP handlers.
type API struct {
	store    Store
	mailer   Mailer
	tokens   *auth.Manager
	validate *validation.Validator
	config   Config
}

// New initialises the API layer.
func New(st Store, mailer Mailer, tokens *auth.Manager, cfg Config) (*API, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if cfg.AppBaseURL == "" {
		return nil, errors.New("app base URL is required")
	}
	if cfg.VerificationTokenTTL <= 0 {
		cfg.VerificationTokenTTL = 24 * time.Hour
	}

	return &API{
		store:    st,
		mailer:   mailer,
		tokens:   tokens,
		validate: validation.New(),
		config:   cfg,
	}, nil
}

// Routes constructs the chi router containing all endpoints.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(otelhttp.NewMiddleware("macrolog"))

	allowed := a.config.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Use(httprate.Limit(100, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", a.handleSignup)
			r.Post("/login", a.handleLogin)
			r.Get("/verify-email/{verificationToken}", a.handleVerifyEmail)
			r.With(a.authenticate).Get("/me", a.handleCurrentUser)
		})

		r.Route("/token", func(r chi.Router) {
			r.Use(a.authenticate)
			r.Post("/revoke", a.handleRevokeToken)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(a.authenticate)
			r.Get("/", a.handleListProducts)
			r.Post("/", a.handleCreateProduct)
			r.Post("/from-recipe", a.handleCreateProductFromRecipe)
			r.Get("/{productID}", a.handleReadProduct)
			r.Patch("/{productID}", a.handleUpdateProduct)
			r.Delete("/{productID}", a.handleDeleteProduct)
			r.Get("/{productID}/recipes", a.handleRecipesByProduct)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Use(a.authenticate)
			r.Get("/", a.handleListRecipes)
			r.Post("/", a.handleCreateRecipe)
			r.Get("/{recipeID}", a.handleReadRecipe)
			r.Patch("/{recipeID}", a.handleUpdateRecipe)
			r.Delete("/{recipeID}", a.handleDeleteRecipe)
		})
	})

	return r
}
