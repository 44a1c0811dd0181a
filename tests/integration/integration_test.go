package integration_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localtable/recipedb/internal/config"
	"github.com/localtable/recipedb/internal/database"
	"github.com/localtable/recipedb/internal/handlers"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/types"
	"github.com/localtable/recipedb/tests/helpers"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestWithMariaDB tests the service with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("AddAndRetrieveRecipe", func(t *testing.T) {
		testAddAndRetrieveRecipe(t, db)
	})

	t.Run("SearchAcrossTables", func(t *testing.T) {
		testSearchAcrossTables(t, db)
	})

	t.Run("EditReplacesCollections", func(t *testing.T) {
		testEditReplacesCollections(t, db)
	})

	t.Run("HandlerRoundTrip", func(t *testing.T) {
		testHandlerRoundTrip(t, db)
	})

	t.Run("DuplicateUserConflict", func(t *testing.T) {
		testDuplicateUserConflict(t, db)
	})
}

func testAddAndRetrieveRecipe(t *testing.T, db *gorm.DB) {
	footnote := "rinse first"
	id, err := services.AddRecipe(db, &services.RecipeInput{
		Title:       "Integration Chili",
		SubmittedBy: "Pat",
		Category:    "Main",
		Ingredients: []services.IngredientInput{
			{Ingredient: "2 lbs ground beef"},
			{Ingredient: "1 can kidney beans", Footnote: &footnote},
		},
		Steps: []string{"Brown the beef.", "Simmer 1 hour."},
		Tags:  []string{"Spicy"},
	})
	if err != nil {
		t.Fatalf("Failed to add recipe: %v", err)
	}

	detail, err := services.GetFullRecipe(db, id)
	if err != nil {
		t.Fatalf("Failed to fetch recipe: %v", err)
	}
	if detail.Title != "Integration Chili" {
		t.Errorf("Unexpected title %q", detail.Title)
	}
	if len(detail.Ingredients) != 2 || len(detail.Steps) != 2 {
		t.Errorf("Child collections incomplete: %d ingredients, %d steps",
			len(detail.Ingredients), len(detail.Steps))
	}
	if len(detail.Tags) != 1 || detail.Tags[0] != "spicy" {
		t.Errorf("Expected lower-cased tag, got %v", detail.Tags)
	}
}

func testSearchAcrossTables(t *testing.T, db *gorm.DB) {
	_ = helpers.CreateTestRecipe(t, db, "Lentil Soup", "Sam", "Soup",
		[]string{"vegan"}, []string{"2 cups lentils"}, []string{"Simmer 40 minutes."})

	ids, err := services.SearchRecipeIDs(db, &services.SearchParams{Ingredients: "lentils"}, false)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected 1 match for ingredient search, got %d", len(ids))
	}

	ids, err = services.SearchRecipeIDs(db, &services.SearchParams{Wildcard: "LENTIL"}, false)
	if err != nil {
		t.Fatalf("Wildcard search failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected 1 wildcard match, got %d", len(ids))
	}
}

func testEditReplacesCollections(t *testing.T, db *gorm.DB) {
	id := helpers.CreateTestRecipe(t, db, "Edit Target", "Pat", "Main",
		[]string{"old"}, []string{"1 egg"}, []string{"Scramble it."})

	newSteps := types.FlexList[string]{"Whisk the egg.", "Cook slowly."}
	edit := &services.RecipeEdit{Steps: &newSteps}

	if _, err := services.EditRecipe(db, id, edit); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	detail, err := services.GetFullRecipe(db, id)
	if err != nil {
		t.Fatalf("Failed to fetch recipe: %v", err)
	}
	if len(detail.Steps) != 2 || detail.Steps[0] != "Whisk the egg." {
		t.Errorf("Steps not replaced in order: %v", detail.Steps)
	}
	if len(detail.Tags) != 1 {
		t.Errorf("Untouched tags disturbed: %v", detail.Tags)
	}
}

func testHandlerRoundTrip(t *testing.T, db *gorm.DB) {
	app := fiber.New()
	handler := &handlers.RecipeHandler{DB: db}
	app.Get("/api/recipes", handler.GetAllRecipes)

	req := httptest.NewRequest("GET", "/api/recipes", nil)
	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Data) == 0 {
		t.Error("Expected recipes from earlier subtests")
	}
}

func testDuplicateUserConflict(t *testing.T, db *gorm.DB) {
	input := &services.SignupInput{
		Username: "integration",
		Email:    "integration@example.com",
		Password: helpers.GeneratePassword(),
	}
	if _, err := services.Signup(db, input, 10); err != nil {
		t.Fatalf("First signup failed: %v", err)
	}

	dup := *input
	dup.Email = "other@example.com"
	_, err := services.Signup(db, &dup, 10)
	if err == nil {
		t.Fatal("Expected a duplicate-username conflict")
	}
}
