package routes

import (
	"dsatracker/backend/config"
	"dsatracker/backend/controllers"
	"dsatracker/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, fetcher controllers.StatsFetcher) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Middleware
	app.Use(middleware.RequestContext(cfg.RequestTimeout))
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db)

	// Stats routes
	statsController := controllers.NewStatsController(fetcher)
	app.Get("/api/stats/:username", statsController.GetStats)
	app.Get("/api/stats/:username/calendar", statsController.GetCalendar)
	app.Get("/api/problems/leetcode/:username", statsController.GetStats)
	app.Get("/api/problems/leetcode/:username/calendar", statsController.GetCalendar)

	// User routes
	authController := controllers.NewAuthController(db, cfg)
	userController := controllers.NewUserController(db, cfg)
	users := app.Group("/api/users")
	users.Get("/ping", userController.Ping)
	users.Post("/auth/register", authController.Register)
	users.Post("/auth/token", authController.Token)
	users.Post("/auth/token/refresh", authController.RefreshToken)
	users.Post("/auth/token/login", authController.CookieLogin)
	users.Post("/auth/token/refresh-cookie", authController.CookieRefresh)
	users.Post("/auth/logout", authController.Logout)
	users.Get("/me", authMiddleware, userController.GetMe)
	users.Patch("/me/update", authMiddleware, userController.UpdateMe)
	users.Put("/me/update", authMiddleware, userController.UpdateMe)
	users.Post("/me/password", authMiddleware, userController.ChangePassword)

	// Problem routes
	problemController := controllers.NewProblemController(db, cfg)
	app.Get("/api/problems", problemController.ListProblems)
	app.Post("/api/problems/create", authMiddleware, adminMiddleware, problemController.CreateProblem)

	// Track routes
	trackController := controllers.NewTrackController(db, cfg)
	tracks := app.Group("/api/tracks")
	tracks.Get("/", trackController.ListTracks)
	tracks.Get("/:id", trackController.GetTrack)
	tracks.Get("/:id/suggest-next", trackController.SuggestNext)

	// Admin routes for tracks
	tracks.Post("/create", authMiddleware, adminMiddleware, trackController.CreateTrack)
	tracks.Put("/:id/update", authMiddleware, adminMiddleware, trackController.UpdateTrack)
	tracks.Patch("/:id/update", authMiddleware, adminMiddleware, trackController.UpdateTrack)
	tracks.Post("/:id/attach", authMiddleware, adminMiddleware, trackController.AttachProblems)
}
