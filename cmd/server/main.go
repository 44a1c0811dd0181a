package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localtable/recipedb/internal/config"
	"github.com/localtable/recipedb/internal/database"
	"github.com/localtable/recipedb/internal/handlers"
	"github.com/localtable/recipedb/internal/middleware"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/types"

	_ "github.com/localtable/recipedb/docs/api" // Swagger docs
)

// @title RecipeDB API
// @version 1.0.0
// @description JSON API for sharing recipes, with search across all recipe fields
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localtable/recipedb

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Token

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("recipedb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health endpoint
	app.Get("/healthz", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	recipeHandler := &handlers.RecipeHandler{DB: db}
	userHandler := &handlers.UserHandler{DB: db, BcryptCost: cfg.BcryptCost}
	authUser := middleware.AuthUser(db)

	// Recipe routes (public reads, authenticated writes)
	api.Get("/recipes/search", recipeHandler.SearchRecipes)
	api.Get("/recipes/:id", recipeHandler.GetRecipe)
	api.Get("/recipes", recipeHandler.GetAllRecipes)
	api.Post("/recipes/batch", recipeHandler.GetRecipesByIds)
	api.Post("/recipes", authUser, recipeHandler.AddRecipe)
	api.Put("/recipes/:id", authUser, recipeHandler.EditRecipe)

	// Lookup routes
	api.Get("/tags", recipeHandler.ListTags)
	api.Get("/submitters", recipeHandler.ListSubmitters)
	api.Get("/categories", recipeHandler.ListCategories)

	// Account routes
	api.Post("/signup", userHandler.Signup)
	api.Post("/signin", userHandler.Signin)
	api.Post("/signout", authUser, userHandler.Signout)
	api.Put("/users/:id", authUser, userHandler.UpdateUser)
	api.Delete("/users/:id", authUser, userHandler.DeleteUser)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	var custom *types.CustomError
	if errors.As(err, &custom) {
		code = custom.Code
		message = custom.Message
		errorType = custom.Type
	}

	var qerr *types.QueryError
	if errors.As(err, &qerr) {
		code = qerr.StatusOr(fiber.StatusBadRequest)
		message = qerr.Message
		errorType = "query"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
