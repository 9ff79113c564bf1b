package router

import (
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/ydahhani/ripple/backend/internal/activity"
	"github.com/ydahhani/ripple/backend/internal/handlers"
	"github.com/ydahhani/ripple/backend/internal/middleware"
	"github.com/ydahhani/ripple/backend/internal/repositories"
	"github.com/ydahhani/ripple/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

// authRateLimit is the per-client request budget on the auth endpoints.
const authRateLimit = rate.Limit(10)

// SetupMiddleware configures global Echo middleware and the error shape
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = httpErrorHandler
	log.Println("Global middleware configured.")
}

// httpErrorHandler renders every error as {"error": "<message>"}
func httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": message})
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authGroup.Use(eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(authRateLimit)))
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public routes ---
	public := e.Group("/api")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterPublicRoutes(public)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, commentRepo)
	postHandler.RegisterPublicRoutes(public)

	searchHandler := handlers.NewSearchHandler(userRepo, postRepo, commentRepo)
	searchHandler.RegisterSearchRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to protected routes.")

	userHandler.RegisterProtectedRoutes(api)
	postHandler.RegisterProtectedRoutes(api)

	followHandler := handlers.NewFollowHandler(userRepo)
	followHandler.RegisterFollowRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo, commentRepo)
	feedHandler.RegisterFeedRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(api)

	aggregator := activity.NewAggregator(userRepo, postRepo, commentRepo)
	activityHandler := handlers.NewActivityHandler(aggregator)
	activityHandler.RegisterActivityRoutes(api)

	log.Println("All routes configured.")
}
