package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"narration-desk/database"
	"narration-desk/database/seeders"
	"narration-desk/logger"
	"narration-desk/middleware"
	"narration-desk/routes"
	authService "narration-desk/services/auth"
	"narration-desk/services/inquiry"
	"narration-desk/services/storage"
	"narration-desk/utils"
	"narration-desk/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found, using process environment")
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       20 * 1024 * 1024, // 20MB body limit
		Views:           views.New(),
	})

	db, err := database.InitDB()
	if err != nil {
		logger.Fatal("Failed to connect to the database: " + err.Error())
	}

	if username := os.Getenv("ADMIN_USERNAME"); username != "" {
		if _, err := seeders.SeedAdmin(db, username, os.Getenv("ADMIN_PASSWORD")); err != nil {
			logger.Error("Failed to seed admin user", err)
		}
	}

	issuer, err := authService.NewIssuer(os.Getenv("JWT_SECRET"), time.Duration(utils.GetEnvInt("JWT_TTL_HOURS", 8))*time.Hour)
	if err != nil {
		logger.Fatal("Invalid session configuration: " + err.Error())
	}
	// Tokens signed elsewhere are verified against a published RSA key
	var verifier middleware.Verifier = middleware.NewHMACVerifier(issuer.Secret())
	if keyURL := os.Getenv("JWT_PUBLIC_KEY_URL"); keyURL != "" {
		verifier = middleware.NewRSAVerifier(keyURL)
	}

	ctx := context.Background()
	store, err := storage.New(ctx)
	if err != nil {
		logger.Error("Cover storage unavailable, uploads are disabled", err)
		store = nil
	}
	if disk, ok := store.(*storage.DiskStore); ok {
		app.Static(disk.URLPrefix(), disk.Root())
	}

	var extractor inquiry.Extractor
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		g, err := inquiry.NewGeminiExtractor(ctx, apiKey, utils.GetEnv("GEMINI_MODEL", inquiry.DefaultModel))
		if err != nil {
			logger.Error("Failed to create Gemini client, inquiry parsing is disabled", err)
		} else {
			extractor = g
		}
	} else {
		logger.Warning("GEMINI_API_KEY not set, inquiry parsing is disabled")
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(middleware.Metrics())

	asyncLogger := routes.SetupRoutes(app, db, routes.Options{
		Verifier:  verifier,
		Issuer:    issuer,
		Store:     store,
		Extractor: extractor,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("Server shutdown failed", err)
		}
	}()

	addr := os.Getenv("APP_HOST") + ":" + utils.GetEnv("APP_PORT", "8080")
	logger.Success("Server is running on " + addr)
	if err := app.Listen(addr); err != nil {
		logger.Error("Server stopped", err)
	}
	asyncLogger.Close()
}
