package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/liftledger/liftledger/internal/config"
	"github.com/liftledger/liftledger/internal/handlers"
	"github.com/liftledger/liftledger/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	exerciseHandler *handlers.ExerciseHandler,
	workoutHandler *handlers.WorkoutHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no auth required)
	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware to individual routes
	// so it never shadows the public ones
	jwt := middleware.JWTProtected(cfg)

	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Delete("/auth/account", jwt, authHandler.DeleteAccount)

	// Profile
	api.Get("/profile", jwt, profileHandler.Get)
	api.Post("/profile", jwt, profileHandler.Create)
	api.Put("/profile", jwt, profileHandler.Update)

	// Exercises
	api.Get("/exercises", jwt, exerciseHandler.List)
	api.Post("/exercises", jwt, exerciseHandler.Create)
	api.Delete("/exercises/:id", jwt, exerciseHandler.Archive)

	// Workouts. The date lookup registers before the :id routes so a literal
	// "date" segment never binds as an ID.
	api.Get("/workouts/date/:date", jwt, workoutHandler.ByDate)
	api.Get("/workouts", jwt, workoutHandler.Between)
	api.Post("/workouts", jwt, workoutHandler.Create)
	api.Get("/workouts/:id/sets", jwt, workoutHandler.Sets)

	// Sets
	api.Post("/sets", jwt, workoutHandler.CreateSet)
	api.Patch("/sets/:id", jwt, workoutHandler.UpdateSet)
	api.Delete("/sets/:id", jwt, workoutHandler.DeleteSet)

	// Export
	api.Get("/export", jwt, workoutHandler.Export)
}
