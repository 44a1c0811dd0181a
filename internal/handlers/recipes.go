// recipes.go
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

package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localtable/recipedb/internal/services"
	"github.com/localtable/recipedb/internal/types"
	"github.com/localtable/recipedb/internal/utils"
	"gorm.io/gorm"
)

// RecipeHandler handles recipe routes
type RecipeHandler struct {
	DB *gorm.DB
}

// serviceError maps a service failure to the standard envelope.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	var qerr *types.QueryError
	if errors.As(err, &qerr) {
		return utils.QueryErrorResponse(c, qerr)
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
}

// GetAllRecipes handles GET /api/recipes
// @Summary List recipes
// @Description Get header-plus-tags summaries for all recipes, ordered by title
// @Tags Recipes
// @Accept json
// @Produce json
// @Param confirmed query bool false "Only confirmed recipes"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /recipes [get]
func (h *RecipeHandler) GetAllRecipes(c *fiber.Ctx) error {
	var (
		recipes []services.RecipeSummary
		err     error
	)
	if confirmed := queryBool(c, "confirmed"); confirmed != nil && *confirmed {
		recipes, err = services.GetAllConfirmedRecipes(h.DB)
	} else {
		recipes, err = services.GetAllRecipes(h.DB)
	}
	if err != nil {
		return serviceError(c, err, "getAllRecipes")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": recipes})
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get one recipe
// @Description Get the full recipe with ingredients, steps, tags and footnotes
// @Tags Recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} services.RecipeDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *fiber.Ctx) error {
	id, err := parseRecipeID(c)
	if err != nil || id == 0 {
		return utils.ErrorResponse(c, "Invalid recipe id.", fiber.StatusBadRequest, "recipes.validation.id")
	}

	recipe, err := services.GetFullRecipe(h.DB, id)
	if err != nil {
		return serviceError(c, err, "getRecipe")
	}
	return c.Status(fiber.StatusOK).JSON(recipe)
}

// SearchRecipes handles GET /api/recipes/search
// @Summary Search recipes
// @Description Search recipes by any combination of parameters; all=true requires every parameter and term to match
// @Tags Recipes
// @Accept json
// @Produce json
// @Param all query bool false "Require all parameters to match"
// @Param title query string false "Title terms, comma-separated"
// @Param source query string false "Source terms, comma-separated"
// @Param submitted_by query string false "Submitter terms, comma-separated"
// @Param category query string false "Exact category"
// @Param tags query string false "Tag terms, comma-separated"
// @Param ingredients query string false "Ingredient terms, comma-separated"
// @Param steps query string false "Step terms, comma-separated"
// @Param footnotes query string false "Footnote terms, comma-separated"
// @Param wildcard query string false "Terms matched across all text fields"
// @Param vegetarian query bool false "Vegetarian flag"
// @Param featured query bool false "Featured flag"
// @Param confirmed query bool false "Confirmed flag"
// @Param limit query int false "Maximum number of results"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /recipes/search [get]
func (h *RecipeHandler) SearchRecipes(c *fiber.Ctx) error {
	params := parseSearchParams(c)
	matchAll := queryBool(c, "all")

	ids, err := services.SearchRecipeIDs(h.DB, params, matchAll != nil && *matchAll)
	if err != nil {
		return serviceError(c, err, "searchRecipes")
	}

	recipes, err := services.GetRecipesByIDs(h.DB, ids)
	if err != nil {
		return serviceError(c, err, "searchRecipes")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": recipes})
}

// GetRecipesByIds handles POST /api/recipes/batch
// @Summary Get recipes by ids
// @Description Get summaries for a batch of recipe ids
// @Tags Recipes
// @Accept json
// @Produce json
// @Param body body object true "Recipe ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /recipes/batch [post]
func (h *RecipeHandler) GetRecipesByIds(c *fiber.Ctx) error {
	var body struct {
		IDs types.FlexList[types.FlexUint64] `json:"ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "recipes.validation.input")
	}

	ids := make([]uint64, 0, len(body.IDs))
	for _, id := range body.IDs {
		if id.Uint64() > 0 {
			ids = append(ids, id.Uint64())
		}
	}

	recipes, err := services.GetRecipesByIDs(h.DB, ids)
	if err != nil {
		return serviceError(c, err, "getRecipesByIds")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": recipes})
}

// AddRecipe handles POST /api/recipes
// @Summary Add a recipe
// @Description Insert a recipe with its ingredients, steps, tags and footnotes in one transaction
// @Tags Recipes
// @Accept json
// @Produce json
// @Param Token header string true "Session token"
// @Param body body services.RecipeInput true "Recipe to add"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /recipes [post]
func (h *RecipeHandler) AddRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "recipes.validation.input")
	}

	if msg := validateRecipeInput(&input); msg != "" {
		return utils.ErrorResponse(c, msg, fiber.StatusBadRequest, "recipes.validation.input")
	}

	id, err := services.AddRecipe(h.DB, &input)
	if err != nil {
		return serviceError(c, err, "addRecipe")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"recipe_id": id,
		"title":     input.Title,
	})
}

// EditRecipe handles PUT /api/recipes/:id
// @Summary Edit a recipe
// @Description Update supplied header fields and replace supplied child collections in one transaction
// @Tags Recipes
// @Accept json
// @Produce json
// @Param Token header string true "Session token"
// @Param id path int true "Recipe ID"
// @Param body body services.RecipeEdit true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /recipes/{id} [put]
func (h *RecipeHandler) EditRecipe(c *fiber.Ctx) error {
	id, err := parseRecipeID(c)
	if err != nil || id == 0 {
		return utils.ErrorResponse(c, "Invalid recipe id.", fiber.StatusBadRequest, "recipes.validation.id")
	}

	var edit services.RecipeEdit
	if err := c.BodyParser(&edit); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "recipes.validation.input")
	}

	title, err := services.EditRecipe(h.DB, id, &edit)
	if err != nil {
		return serviceError(c, err, "editRecipe")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"recipe_id": id,
		"title":     title,
		"message":   "Recipe successfully updated.",
	})
}

// ListTags handles GET /api/tags
// @Summary List tags
// @Description Get the distinct set of tags in use
// @Tags Lookups
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tags [get]
func (h *RecipeHandler) ListTags(c *fiber.Ctx) error {
	tags, err := services.ListTags(h.DB)
	if err != nil {
		return serviceError(c, err, "listTags")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": tags})
}

// ListSubmitters handles GET /api/submitters
// @Summary List submitters
// @Description Get the distinct set of recipe submitters
// @Tags Lookups
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /submitters [get]
func (h *RecipeHandler) ListSubmitters(c *fiber.Ctx) error {
	submitters, err := services.ListSubmitters(h.DB)
	if err != nil {
		return serviceError(c, err, "listSubmitters")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": submitters})
}

// ListCategories handles GET /api/categories
// @Summary List categories
// @Description Get the distinct set of recipe categories
// @Tags Lookups
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /categories [get]
func (h *RecipeHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := services.ListCategories(h.DB)
	if err != nil {
		return serviceError(c, err, "listCategories")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": categories})
}

// validateRecipeInput enforces the create-payload requirements; it returns
// an empty string when the payload is acceptable.
func validateRecipeInput(input *services.RecipeInput) string {
	if strings.TrimSpace(input.Title) == "" {
		return "'title' is required."
	}
	if strings.TrimSpace(input.SubmittedBy) == "" {
		return "'submitted_by' is required."
	}
	if strings.TrimSpace(input.Category) == "" {
		return "'category' is required."
	}
	if len(input.Ingredients) == 0 {
		return "At least one ingredient is required."
	}
	if len(input.Steps) == 0 {
		return "At least one step is required."
	}
	return ""
}
