package services_test

import (
	"testing"

	"github.com/localtable/recipedb/internal/services"
	"gorm.io/gorm"
)

func seedSearchData(t *testing.T, db *gorm.DB) (chili, stew, salad uint64) {
	t.Helper()
	chili = addRecipe(t, db, chiliInput())
	stew = addRecipe(t, db, stewInput())
	salad = addRecipe(t, db, saladInput())
	return chili, stew, salad
}

func containsID(ids []uint64, id uint64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// TestSearchMatchAnyVsAll verifies the combination semantics: match-any
// unions parameter terms, match-all intersects them.
func TestSearchMatchAnyVsAll(t *testing.T) {
	db := setupTestDB(t)
	_, stew, salad := seedSearchData(t, db)

	params := &services.SearchParams{Tags: "vegan,quick"}

	ids, err := services.SearchRecipeIDs(db, params, false)
	if err != nil {
		t.Fatalf("Match-any search failed: %v", err)
	}
	if len(ids) != 2 || !containsID(ids, stew) || !containsID(ids, salad) {
		t.Errorf("Expected stew and salad for any-of vegan,quick, got %v", ids)
	}

	ids, err = services.SearchRecipeIDs(db, params, true)
	if err != nil {
		t.Fatalf("Match-all search failed: %v", err)
	}
	if len(ids) != 1 || !containsID(ids, stew) {
		t.Errorf("Expected only stew for all-of vegan,quick, got %v", ids)
	}
}

// TestSearchCaseInsensitive verifies term matching ignores case and matches
// substrings.
func TestSearchCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	chili, _, _ := seedSearchData(t, db)

	ids, err := services.SearchRecipeIDs(db, &services.SearchParams{Title: "CHILI"}, false)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 || !containsID(ids, chili) {
		t.Errorf("Expected chili for title CHILI, got %v", ids)
	}
}

// TestSearchNoParameters verifies an unconstrained search is rejected
// instead of returning the whole table.
func TestSearchNoParameters(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)

	_, err := services.SearchRecipeIDs(db, &services.SearchParams{}, false)
	qerr := queryErr(t, err)
	if qerr.Status != 400 {
		t.Errorf("Expected status 400, got %d", qerr.Status)
	}
	if qerr.Message != "At least one search parameter is required." {
		t.Errorf("Unexpected message: %q", qerr.Message)
	}
}

// TestSearchWildcard verifies one wildcard term matches across header and
// child tables at once.
func TestSearchWildcard(t *testing.T) {
	db := setupTestDB(t)
	chili, stew, _ := seedSearchData(t, db)

	// "beef" appears in chili's ingredients only; "stew" in stew's title only.
	ids, err := services.SearchRecipeIDs(db, &services.SearchParams{Wildcard: "beef,stew"}, false)
	if err != nil {
		t.Fatalf("Wildcard search failed: %v", err)
	}
	if len(ids) != 2 || !containsID(ids, chili) || !containsID(ids, stew) {
		t.Errorf("Expected chili and stew for wildcard beef,stew, got %v", ids)
	}
}

// TestSearchBooleanExact verifies boolean parameters match exactly rather
// than as substrings.
func TestSearchBooleanExact(t *testing.T) {
	db := setupTestDB(t)
	chili, stew, salad := seedSearchData(t, db)

	vegetarian := true
	ids, err := services.SearchRecipeIDs(db, &services.SearchParams{Vegetarian: &vegetarian}, false)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 2 || !containsID(ids, stew) || !containsID(ids, salad) {
		t.Errorf("Expected the two vegetarian recipes, got %v", ids)
	}
	if containsID(ids, chili) {
		t.Error("Non-vegetarian recipe matched vegetarian=true")
	}
}

// TestSearchCombinedParameters verifies match-all across different
// parameters intersects their candidate sets.
func TestSearchCombinedParameters(t *testing.T) {
	db := setupTestDB(t)
	_, stew, _ := seedSearchData(t, db)

	vegetarian := true
	params := &services.SearchParams{
		Tags:       "quick",
		Category:   "Main",
		Vegetarian: &vegetarian,
	}
	ids, err := services.SearchRecipeIDs(db, params, true)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 || !containsID(ids, stew) {
		t.Errorf("Expected only stew, got %v", ids)
	}
}

// TestSearchLimit verifies the limit caps the combined result set only.
func TestSearchLimit(t *testing.T) {
	db := setupTestDB(t)
	seedSearchData(t, db)

	ids, err := services.SearchRecipeIDs(db, &services.SearchParams{Tags: "vegan,quick", Limit: 1}, false)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("Expected 1 id with limit 1, got %d", len(ids))
	}
}
