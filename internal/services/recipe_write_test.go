package services_test

import (
	"strings"
	"testing"

	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/types"
)

// TestAddRecipeInsertsAllTables verifies a full create lands the header and
// every child collection, with order preserved and tags lower-cased.
func TestAddRecipeInsertsAllTables(t *testing.T) {
	db := setupTestDB(t)

	id := addRecipe(t, db, chiliInput())
	if id == 0 {
		t.Fatal("Expected a non-zero recipe id")
	}

	detail, err := services.GetFullRecipe(db, id)
	if err != nil {
		t.Fatalf("Failed to fetch recipe: %v", err)
	}

	if detail.Title != "Spicy Chili" {
		t.Errorf("Expected title 'Spicy Chili', got %q", detail.Title)
	}
	if len(detail.Ingredients) != 3 {
		t.Fatalf("Expected 3 ingredients, got %d", len(detail.Ingredients))
	}
	if detail.Ingredients[0].Ingredient != "2 lbs ground beef" {
		t.Errorf("Ingredient order not preserved: got %q first", detail.Ingredients[0].Ingredient)
	}
	if detail.Ingredients[1].Footnote == nil || *detail.Ingredients[1].Footnote != "rinse first" {
		t.Error("Expected footnote on second ingredient")
	}
	if len(detail.Steps) != 2 || detail.Steps[0] != "Brown the beef." {
		t.Errorf("Step order not preserved: %v", detail.Steps)
	}
	if len(detail.Footnotes) != 1 {
		t.Errorf("Expected 1 footnote, got %d", len(detail.Footnotes))
	}

	// Tags stored lower-cased
	for _, tag := range detail.Tags {
		if tag != strings.ToLower(tag) {
			t.Errorf("Expected lower-cased tag, got %q", tag)
		}
	}
}

// TestAddRecipeRollsBackOnChildFailure verifies the transaction leaves no
// orphaned header when a child insert fails partway through.
func TestAddRecipeRollsBackOnChildFailure(t *testing.T) {
	db := setupTestDB(t)

	// Force the steps insert to fail after the header and ingredients land.
	if err := db.Migrator().DropTable(&models.Step{}); err != nil {
		t.Fatalf("Failed to drop steps table: %v", err)
	}

	_, err := services.AddRecipe(db, chiliInput())
	qerr := queryErr(t, err)
	if qerr.Message != "Error adding steps." {
		t.Errorf("Expected failure attributed to steps, got %q", qerr.Message)
	}

	var count int64
	db.Model(&models.Recipe{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected rollback to remove the recipe header, found %d rows", count)
	}
	db.Model(&models.Ingredient{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected rollback to remove ingredients, found %d rows", count)
	}
}

// TestEditRecipeReplacesCollections verifies supplied collections are
// replaced wholesale while untouched collections survive.
func TestEditRecipeReplacesCollections(t *testing.T) {
	db := setupTestDB(t)
	id := addRecipe(t, db, chiliInput())

	newTags := types.FlexList[string]{"Mild", "weeknight"}
	title, err := services.EditRecipe(db, id, &services.RecipeEdit{Tags: &newTags})
	if err != nil {
		t.Fatalf("Failed to edit recipe: %v", err)
	}
	if title != "Spicy Chili" {
		t.Errorf("Expected unchanged title back, got %q", title)
	}

	detail, err := services.GetFullRecipe(db, id)
	if err != nil {
		t.Fatalf("Failed to fetch recipe: %v", err)
	}
	if len(detail.Tags) != 2 {
		t.Fatalf("Expected old tags replaced, got %v", detail.Tags)
	}
	for _, tag := range detail.Tags {
		if tag == "spicy" || tag == "beef" {
			t.Errorf("Old tag %q survived the replacement", tag)
		}
	}
	// Untouched collections intact
	if len(detail.Ingredients) != 3 || len(detail.Steps) != 2 {
		t.Error("Edit of tags disturbed other collections")
	}
}

// TestEditRecipeUpdatesHeader verifies partial header updates and the
// returned title reflecting a title change.
func TestEditRecipeUpdatesHeader(t *testing.T) {
	db := setupTestDB(t)
	id := addRecipe(t, db, chiliInput())

	edit := &services.RecipeEdit{
		Title:      strPtr("Five Alarm Chili"),
		Vegetarian: boolPtr(false),
		Servings:   strPtr("6"),
	}
	title, err := services.EditRecipe(db, id, edit)
	if err != nil {
		t.Fatalf("Failed to edit recipe: %v", err)
	}
	if title != "Five Alarm Chili" {
		t.Errorf("Expected new title back, got %q", title)
	}

	detail, err := services.GetFullRecipe(db, id)
	if err != nil {
		t.Fatalf("Failed to fetch recipe: %v", err)
	}
	if detail.Title != "Five Alarm Chili" {
		t.Errorf("Header title not updated: %q", detail.Title)
	}
	if detail.Servings == nil || *detail.Servings != "6" {
		t.Error("Servings not updated")
	}
	if detail.SubmittedBy != "Pat" {
		t.Error("Unsupplied header field changed")
	}
}

// TestEditRecipeEmptyPayload verifies an edit with no recognized keys is
// rejected before touching the database.
func TestEditRecipeEmptyPayload(t *testing.T) {
	db := setupTestDB(t)
	id := addRecipe(t, db, chiliInput())

	_, err := services.EditRecipe(db, id, &services.RecipeEdit{})
	qerr := queryErr(t, err)
	if qerr.Status != 400 {
		t.Errorf("Expected status 400, got %d", qerr.Status)
	}
	if qerr.Message != "You must include data to update in the request body." {
		t.Errorf("Unexpected message: %q", qerr.Message)
	}
}

// TestEditRecipeMissing verifies editing a nonexistent recipe is a 404.
func TestEditRecipeMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.EditRecipe(db, 9999, &services.RecipeEdit{Title: strPtr("Ghost")})
	qerr := queryErr(t, err)
	if qerr.Status != 404 {
		t.Errorf("Expected status 404, got %d", qerr.Status)
	}
}
