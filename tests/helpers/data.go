// data.go
//
// A JSON API for sharing recipes, backed by a relational store.
// Copyright (c) 2026 RecipeDB contributors
//
// This file is part of recipedb.
// recipedb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// recipedb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with recipedb.
// If not, see <https://www.gnu.org/licenses/>.

package helpers

import (
	"strings"
	"testing"

	"github.com/localtable/recipedb/internal/models"
	"gorm.io/gorm"
)

// CreateTestRecipe inserts a recipe header with tags, one ingredient per
// ingredient string and one step per step string, in listed order.
func CreateTestRecipe(t *testing.T, db *gorm.DB, title, submittedBy, category string, tags, ingredients, steps []string) uint64 {
	t.Helper()

	rec := models.Recipe{
		Title:       title,
		SubmittedBy: submittedBy,
		Category:    category,
	}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("Failed to create recipe %q: %v", title, err)
	}

	for _, tag := range tags {
		row := models.Tag{RecipeID: rec.ID, Tag: strings.ToLower(tag)}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to create tag %q: %v", tag, err)
		}
	}
	for i, ingredient := range ingredients {
		row := models.Ingredient{RecipeID: rec.ID, Ingredient: ingredient, RecipeOrder: i}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to create ingredient %q: %v", ingredient, err)
		}
	}
	for i, step := range steps {
		row := models.Step{RecipeID: rec.ID, Step: step, RecipeOrder: i}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("Failed to create step %q: %v", step, err)
		}
	}

	return rec.ID
}

// MarkConfirmed flags a recipe confirmed.
func MarkConfirmed(t *testing.T, db *gorm.DB, recipeID uint64) {
	t.Helper()
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).
		Update("confirmed", true).Error; err != nil {
		t.Fatalf("Failed to confirm recipe %d: %v", recipeID, err)
	}
}
