package main

import (
	"os"

	"dsatracker/backend/config"
	"dsatracker/backend/leetcode"
	"dsatracker/backend/middleware"
	"dsatracker/backend/routes"
	"dsatracker/backend/seed"
	"dsatracker/backend/utils"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error initializing database")
	}

	if cfg.SeedTracks {
		if _, err := seed.SeedTracks(db); err != nil {
			logger.Fatal().Err(err).Msg("error seeding tracks")
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:     "dsa-tracker",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	fetcher := leetcode.NewClient(leetcode.OptionsFromConfig(cfg))
	routes.SetupRoutes(app, db, cfg, fetcher)

	// Start server
	logger.Info().Str("port", cfg.ServerPort).Msg("starting server")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
