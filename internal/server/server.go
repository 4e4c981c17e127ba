// Package server wires repositories, services and handlers into the HTTP
// router and runs it.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/ingredients"
	"foodgram/internal/modules/interactions"
	"foodgram/internal/modules/recipes"
	"foodgram/internal/modules/shoppinglist"
	"foodgram/internal/modules/users"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/response"
	"foodgram/internal/repository"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with every /api/v1 route registered.
func NewRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	shoppingRepo := repository.NewShoppingListRepository(db)

	disk := storage.NewDisk(cfg.UploadsDir, cfg.StaticURLBase)
	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	recipeService := recipes.NewService(recipes.Deps{
		Transactor:    tx,
		Recipes:       recipeRepo,
		Ingredients:   ingredientRepo,
		Interactions:  interactionRepo,
		Subscriptions: subscriptionRepo,
		Images:        disk,
		MaxImageBytes: cfg.MaxImageBytes,
		Log:           log,
	})
	userService := users.NewService(users.Deps{
		Users:         userRepo,
		Subscriptions: subscriptionRepo,
		Recipes:       recipeRepo,
		Images:        disk,
		MaxImageBytes: cfg.MaxImageBytes,
		Log:           log,
	})

	recipeHandler := recipes.NewHandler(recipeService)
	userHandler := users.NewHandler(userService)
	interactionHandler := interactions.NewHandler(interactions.NewService(recipeRepo, interactionRepo))
	shoppingHandler := shoppinglist.NewHandler(shoppinglist.NewService(shoppingRepo))
	ingredientHandler := ingredients.NewHandler(ingredientRepo)

	r := gin.New()
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)))
	}

	r.Static(cfg.StaticURLBase, cfg.UploadsDir)

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(middleware.OptionalAuth(tokens))

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))

		ingredientHandler.RegisterRoutes(public)
		userHandler.RegisterRoutes(public, protected)
		shoppingHandler.RegisterRoutes(protected)
		recipeHandler.RegisterRoutes(public, protected)
		interactionHandler.RegisterRoutes(protected)
	}

	return r
}

// Run serves handler until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
