// common.go
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
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localtable/recipedb/internal/services"
)

// parseRecipeID extracts and validates the :id path parameter.
func parseRecipeID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, err
	}
	return id, nil
}

// parseSearchParams maps recognized query parameters onto search inputs.
// Unrecognized parameters are ignored. Repeated keys for the same parameter
// fold into one comma-separated value.
func parseSearchParams(c *fiber.Ctx) *services.SearchParams {
	params := &services.SearchParams{
		Title:       queryCSV(c, "title"),
		Source:      queryCSV(c, "source"),
		SubmittedBy: queryCSV(c, "submitted_by"),
		Category:    strings.TrimSpace(c.Query("category")),
		Steps:       queryCSV(c, "steps"),
		Footnotes:   queryCSV(c, "footnotes"),
		Tags:        queryCSV(c, "tags"),
		Ingredients: queryCSV(c, "ingredients"),
		Wildcard:    queryCSV(c, "wildcard"),
		Vegetarian:  queryBool(c, "vegetarian"),
		Featured:    queryBool(c, "featured"),
		Confirmed:   queryBool(c, "confirmed"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}
	return params
}

// queryCSV collects every occurrence of a query key into one comma-separated
// value, so ?tags=a&tags=b and ?tags=a,b read the same.
func queryCSV(c *fiber.Ctx, name string) string {
	var parts []string
	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) == name && len(value) > 0 {
			parts = append(parts, string(value))
		}
	}
	return strings.Join(parts, ",")
}

// queryBool returns nil when the parameter is absent; a present parameter is
// true unless it spells a recognized false.
func queryBool(c *fiber.Ctx, name string) *bool {
	raw := c.Query(name)
	if raw == "" && !c.Context().QueryArgs().Has(name) {
		return nil
	}
	value := raw != "false" && raw != "0"
	return &value
}
