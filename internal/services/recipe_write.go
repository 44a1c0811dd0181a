// recipe_write.go
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

package services

import (
	"errors"
	"log"
	"strings"

	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/types"
	"gorm.io/gorm"
)

// IngredientInput is one ingredient line with its optional footnote companion.
type IngredientInput struct {
	Ingredient string  `json:"ingredient"`
	Footnote   *string `json:"footnote"`
}

// RecipeInput is the create payload. Ingredients and steps are required
// non-empty; tags and footnotes are optional.
type RecipeInput struct {
	Title       string                          `json:"title"`
	Source      *string                         `json:"source"`
	SourceURL   *string                         `json:"source_url"`
	SubmittedBy string                          `json:"submitted_by"`
	Servings    *string                         `json:"servings"`
	Category    string                          `json:"category"`
	Vegetarian  bool                            `json:"vegetarian"`
	Featured    bool                            `json:"featured"`
	Confirmed   bool                            `json:"confirmed"`
	Ingredients types.FlexList[IngredientInput] `json:"ingredients"`
	Steps       types.FlexList[string]          `json:"steps"`
	Tags        types.FlexList[string]          `json:"tags"`
	Footnotes   types.FlexList[string]          `json:"footnotes"`
}

// RecipeEdit is the partial edit payload. Nil means "not supplied": header
// fields update only the supplied columns, child collections are replaced
// wholesale when present.
type RecipeEdit struct {
	Title       *string                          `json:"title"`
	Source      *string                          `json:"source"`
	SourceURL   *string                          `json:"source_url"`
	SubmittedBy *string                          `json:"submitted_by"`
	Servings    *string                          `json:"servings"`
	Category    *string                          `json:"category"`
	Vegetarian  *bool                            `json:"vegetarian"`
	Featured    *bool                            `json:"featured"`
	Confirmed   *bool                            `json:"confirmed"`
	Ingredients *types.FlexList[IngredientInput] `json:"ingredients"`
	Steps       *types.FlexList[string]          `json:"steps"`
	Tags        *types.FlexList[string]          `json:"tags"`
	Footnotes   *types.FlexList[string]          `json:"footnotes"`
}

// Empty reports whether the edit payload carries no recognized keys at all.
func (e *RecipeEdit) Empty() bool {
	return len(e.headerUpdates()) == 0 &&
		e.Ingredients == nil && e.Steps == nil && e.Tags == nil && e.Footnotes == nil
}

// headerUpdates collects the supplied header columns. created_at is not
// updatable.
func (e *RecipeEdit) headerUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	if e.Title != nil {
		updates["title"] = *e.Title
	}
	if e.Source != nil {
		updates["source"] = *e.Source
	}
	if e.SourceURL != nil {
		updates["source_url"] = *e.SourceURL
	}
	if e.SubmittedBy != nil {
		updates["submitted_by"] = *e.SubmittedBy
	}
	if e.Servings != nil {
		updates["servings"] = *e.Servings
	}
	if e.Category != nil {
		updates["category"] = *e.Category
	}
	if e.Vegetarian != nil {
		updates["vegetarian"] = *e.Vegetarian
	}
	if e.Featured != nil {
		updates["featured"] = *e.Featured
	}
	if e.Confirmed != nil {
		updates["confirmed"] = *e.Confirmed
	}
	return updates
}

// AddRecipe inserts the recipe header and all child collections in one
// transaction. Any failure rolls the whole recipe back; failures name the
// table that broke. Returns the generated recipe id.
func AddRecipe(db *gorm.DB, input *RecipeInput) (uint64, error) {
	rec := models.Recipe{
		Title:       input.Title,
		Source:      input.Source,
		SourceURL:   input.SourceURL,
		SubmittedBy: input.SubmittedBy,
		Servings:    input.Servings,
		Category:    input.Category,
		Vegetarian:  input.Vegetarian,
		Featured:    input.Featured,
		Confirmed:   input.Confirmed,
	}

	var recipeID uint64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			log.Printf("recipe insert failed: %v", err)
			return &types.QueryError{
				Status:  400,
				Message: "Error adding recipe to recipes table.",
				Details: redactError(err),
			}
		}
		if rec.ID == 0 {
			return &types.QueryError{Status: 400, Message: "No recipe id returned."}
		}
		recipeID = rec.ID

		if err := insertIngredients(tx, recipeID, input.Ingredients.Slice()); err != nil {
			return err
		}
		if err := insertSteps(tx, recipeID, input.Steps.Slice()); err != nil {
			return err
		}
		if len(input.Tags) > 0 {
			if err := insertTags(tx, recipeID, input.Tags.Slice()); err != nil {
				return err
			}
		}
		if len(input.Footnotes) > 0 {
			if err := insertFootnotes(tx, recipeID, input.Footnotes.Slice()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return recipeID, nil
}

// EditRecipe updates the supplied header columns and replaces the supplied
// child collections, all inside a single transaction with the header update.
// A missing recipe fails with a 404-mappable error. Returns the recipe's
// title as of commit.
func EditRecipe(db *gorm.DB, recipeID uint64, edit *RecipeEdit) (string, error) {
	if edit.Empty() {
		return "", &types.QueryError{
			Status:  400,
			Message: "You must include data to update in the request body.",
		}
	}

	var title string
	err := db.Transaction(func(tx *gorm.DB) error {
		// Existence check up front: MySQL reports zero affected rows for
		// no-op updates, so RowsAffected alone cannot distinguish "missing"
		// from "unchanged".
		var existing models.Recipe
		if err := tx.Select("id", "title").First(&existing, recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.QueryError{Status: 404, Message: "Recipe not found"}
			}
			log.Printf("recipe lookup failed: %v", err)
			return &types.QueryError{
				Status:  400,
				Message: "Error updating recipes table.",
				Details: redactError(err),
			}
		}
		title = existing.Title

		if updates := edit.headerUpdates(); len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
				log.Printf("recipe update failed: %v", err)
				return &types.QueryError{
					Status:  400,
					Message: "Error updating recipes table.",
					Details: redactError(err),
				}
			}
			if edit.Title != nil {
				title = *edit.Title
			}
		}

		// Replace-wholesale for each supplied child collection: delete the
		// recipe's rows in that table, then insert the new set with fresh
		// zero-based ordering.
		if edit.Ingredients != nil {
			if err := deleteChild(tx, recipeID, &models.Ingredient{}, "ingredients"); err != nil {
				return err
			}
			if err := insertIngredients(tx, recipeID, edit.Ingredients.Slice()); err != nil {
				return err
			}
		}
		if edit.Steps != nil {
			if err := deleteChild(tx, recipeID, &models.Step{}, "steps"); err != nil {
				return err
			}
			if err := insertSteps(tx, recipeID, edit.Steps.Slice()); err != nil {
				return err
			}
		}
		if edit.Tags != nil {
			if err := deleteChild(tx, recipeID, &models.Tag{}, "tags"); err != nil {
				return err
			}
			if err := insertTags(tx, recipeID, edit.Tags.Slice()); err != nil {
				return err
			}
		}
		if edit.Footnotes != nil {
			if err := deleteChild(tx, recipeID, &models.Footnote{}, "footnotes"); err != nil {
				return err
			}
			if err := insertFootnotes(tx, recipeID, edit.Footnotes.Slice()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return title, nil
}

func insertIngredients(tx *gorm.DB, recipeID uint64, items []IngredientInput) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.Ingredient, len(items))
	for i, item := range items {
		rows[i] = models.Ingredient{
			RecipeID:    recipeID,
			Ingredient:  item.Ingredient,
			Footnote:    item.Footnote,
			RecipeOrder: i,
		}
	}
	if err := tx.Create(&rows).Error; err != nil {
		log.Printf("ingredients insert failed: %v", err)
		return &types.QueryError{Status: 400, Message: "Error adding ingredients.", Details: redactError(err)}
	}
	return nil
}

func insertSteps(tx *gorm.DB, recipeID uint64, items []string) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.Step, len(items))
	for i, step := range items {
		rows[i] = models.Step{RecipeID: recipeID, Step: step, RecipeOrder: i}
	}
	if err := tx.Create(&rows).Error; err != nil {
		log.Printf("steps insert failed: %v", err)
		return &types.QueryError{Status: 400, Message: "Error adding steps.", Details: redactError(err)}
	}
	return nil
}

// insertTags lower-cases each tag before storage. Duplicates are the
// caller's responsibility.
func insertTags(tx *gorm.DB, recipeID uint64, items []string) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.Tag, len(items))
	for i, tag := range items {
		rows[i] = models.Tag{RecipeID: recipeID, Tag: strings.ToLower(tag)}
	}
	if err := tx.Create(&rows).Error; err != nil {
		log.Printf("tags insert failed: %v", err)
		return &types.QueryError{Status: 400, Message: "Error adding tags.", Details: redactError(err)}
	}
	return nil
}

func insertFootnotes(tx *gorm.DB, recipeID uint64, items []string) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.Footnote, len(items))
	for i, note := range items {
		rows[i] = models.Footnote{RecipeID: recipeID, Footnote: note, RecipeOrder: i}
	}
	if err := tx.Create(&rows).Error; err != nil {
		log.Printf("footnotes insert failed: %v", err)
		return &types.QueryError{Status: 400, Message: "Error adding footnotes.", Details: redactError(err)}
	}
	return nil
}

func deleteChild(tx *gorm.DB, recipeID uint64, model interface{}, table string) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
		log.Printf("%s delete failed: %v", table, err)
		return &types.QueryError{
			Status:  400,
			Message: "Error replacing " + table + ".",
			Details: redactError(err),
		}
	}
	return nil
}
