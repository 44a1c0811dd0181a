package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/types"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.Recipe{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Step{},
		&models.Footnote{},
		&models.User{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// addRecipe inserts a recipe through the service layer and fails the test on error.
func addRecipe(t *testing.T, db *gorm.DB, input *services.RecipeInput) uint64 {
	t.Helper()
	id, err := services.AddRecipe(db, input)
	if err != nil {
		t.Fatalf("Failed to add recipe %q: %v", input.Title, err)
	}
	return id
}

func chiliInput() *services.RecipeInput {
	return &services.RecipeInput{
		Title:       "Spicy Chili",
		SubmittedBy: "Pat",
		Category:    "Main",
		Ingredients: []services.IngredientInput{
			{Ingredient: "2 lbs ground beef"},
			{Ingredient: "1 can kidney beans", Footnote: strPtr("rinse first")},
			{Ingredient: "3 tbsp chili powder"},
		},
		Steps: []string{
			"Brown the beef.",
			"Add beans and chili powder, simmer 1 hour.",
		},
		Tags:      []string{"Spicy", "beef"},
		Footnotes: []string{"Freezes well."},
	}
}

func stewInput() *services.RecipeInput {
	return &services.RecipeInput{
		Title:       "Vegan Stew",
		SubmittedBy: "Sam",
		Category:    "Main",
		Vegetarian:  true,
		Ingredients: []services.IngredientInput{
			{Ingredient: "2 cups lentils"},
			{Ingredient: "4 carrots, chopped"},
		},
		Steps: []string{"Combine everything.", "Simmer 40 minutes."},
		Tags:  []string{"vegan", "quick"},
	}
}

func saladInput() *services.RecipeInput {
	return &services.RecipeInput{
		Title:       "Quick Salad",
		SubmittedBy: "Sam",
		Category:    "Side",
		Vegetarian:  true,
		Ingredients: []services.IngredientInput{
			{Ingredient: "1 head romaine lettuce"},
		},
		Steps: []string{"Chop and toss."},
		Tags:  []string{"quick"},
	}
}

// queryErr unwraps a *types.QueryError or fails the test.
func queryErr(t *testing.T, err error) *types.QueryError {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	qerr, ok := err.(*types.QueryError)
	if !ok {
		t.Fatalf("Expected *types.QueryError, got %T: %v", err, err)
	}
	return qerr
}
