// recipe_search.go
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
	"strings"

	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/types"
	"gorm.io/gorm"
)

// SearchParams are the recognized search inputs. Free-text fields accept
// comma-separated multi-term values; boolean and category fields match
// exactly. Limit caps the final combined result only.
type SearchParams struct {
	Title       string
	Source      string
	SubmittedBy string
	Category    string
	Steps       string
	Footnotes   string
	Tags        string
	Ingredients string
	Wildcard    string
	Vegetarian  *bool
	Featured    *bool
	Confirmed   *bool
	Limit       int
}

// SearchRecipeIDs resolves the search parameters to a de-duplicated set of
// recipe ids. Every recognized parameter contributes candidate-id
// subqueries; matchAll intersects them (AND), otherwise they are unioned
// (OR). The same flag governs comma-separated terms within one parameter.
// All matching is parameterized; no user input is concatenated into SQL.
func SearchRecipeIDs(db *gorm.DB, params *SearchParams, matchAll bool) ([]uint64, error) {
	subqueries := buildSubqueries(db, params, matchAll)
	if len(subqueries) == 0 {
		return nil, &types.QueryError{
			Status:  400,
			Message: "At least one search parameter is required.",
		}
	}

	query := db.Model(&models.Recipe{})
	if matchAll {
		for _, sub := range subqueries {
			query = query.Where("recipes.id IN (?)", sub)
		}
	} else {
		cond := db.Where("recipes.id IN (?)", subqueries[0])
		for _, sub := range subqueries[1:] {
			cond = cond.Or("recipes.id IN (?)", sub)
		}
		query = query.Where(cond)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var ids []uint64
	if err := fetchQuery("Error searching recipes.", func() *gorm.DB {
		return query.Distinct().Pluck("recipes.id", &ids)
	}); err != nil {
		return nil, err
	}
	return ids, nil
}

func buildSubqueries(db *gorm.DB, params *SearchParams, matchAll bool) []*gorm.DB {
	var subs []*gorm.DB

	subs = append(subs, headerTextSubqueries(db, "title", params.Title, matchAll)...)
	subs = append(subs, headerTextSubqueries(db, "source", params.Source, matchAll)...)
	subs = append(subs, headerTextSubqueries(db, "submitted_by", params.SubmittedBy, matchAll)...)

	if params.Category != "" {
		subs = append(subs, db.Model(&models.Recipe{}).Select("recipes.id").
			Where("category = ?", params.Category))
	}
	if params.Vegetarian != nil {
		subs = append(subs, db.Model(&models.Recipe{}).Select("recipes.id").
			Where("vegetarian = ?", *params.Vegetarian))
	}
	if params.Featured != nil {
		subs = append(subs, db.Model(&models.Recipe{}).Select("recipes.id").
			Where("featured = ?", *params.Featured))
	}
	if params.Confirmed != nil {
		subs = append(subs, db.Model(&models.Recipe{}).Select("recipes.id").
			Where("confirmed = ?", *params.Confirmed))
	}

	subs = append(subs, childTextSubqueries(db, &models.Step{}, "step", params.Steps, matchAll)...)
	subs = append(subs, childTextSubqueries(db, &models.Footnote{}, "footnote", params.Footnotes, matchAll)...)
	subs = append(subs, childTextSubqueries(db, &models.Tag{}, "tag", params.Tags, matchAll)...)
	subs = append(subs, childTextSubqueries(db, &models.Ingredient{}, "ingredient", params.Ingredients, matchAll)...)

	// Each wildcard term is its own cross-table subquery, combined at the
	// top level like any other parameter.
	for _, term := range splitTerms(params.Wildcard) {
		subs = append(subs, wildcardSubquery(db, term))
	}

	return subs
}

// headerTextSubqueries builds candidate-id subqueries against a recipes
// column. matchAll yields one subquery per term (intersected upstream);
// match-any folds all terms into a single OR-ed subquery.
func headerTextSubqueries(db *gorm.DB, column, csv string, matchAll bool) []*gorm.DB {
	terms := splitTerms(csv)
	if len(terms) == 0 {
		return nil
	}
	if matchAll {
		subs := make([]*gorm.DB, len(terms))
		for i, term := range terms {
			subs[i] = db.Model(&models.Recipe{}).Select("recipes.id").
				Where(likeClause(column), likePattern(term))
		}
		return subs
	}
	cond := db.Where(likeClause(column), likePattern(terms[0]))
	for _, term := range terms[1:] {
		cond = cond.Or(likeClause(column), likePattern(term))
	}
	return []*gorm.DB{db.Model(&models.Recipe{}).Select("recipes.id").Where(cond)}
}

// childTextSubqueries is headerTextSubqueries against a child table,
// selecting recipe_id instead.
func childTextSubqueries(db *gorm.DB, model interface{}, column, csv string, matchAll bool) []*gorm.DB {
	terms := splitTerms(csv)
	if len(terms) == 0 {
		return nil
	}
	if matchAll {
		subs := make([]*gorm.DB, len(terms))
		for i, term := range terms {
			subs[i] = db.Model(model).Select("recipe_id").
				Where(likeClause(column), likePattern(term))
		}
		return subs
	}
	cond := db.Where(likeClause(column), likePattern(terms[0]))
	for _, term := range terms[1:] {
		cond = cond.Or(likeClause(column), likePattern(term))
	}
	return []*gorm.DB{db.Model(model).Select("recipe_id").Where(cond)}
}

// wildcardSubquery searches one term across every text-bearing table at
// once: title, ingredients (and their footnote companions), steps, tags and
// footnotes, unioned.
func wildcardSubquery(db *gorm.DB, term string) *gorm.DB {
	pattern := likePattern(term)

	titles := db.Model(&models.Recipe{}).Select("recipes.id").
		Where(likeClause("title"), pattern)
	ingredients := db.Model(&models.Ingredient{}).Select("recipe_id").
		Where(db.Where(likeClause("ingredient"), pattern).Or(likeClause("footnote"), pattern))
	steps := db.Model(&models.Step{}).Select("recipe_id").
		Where(likeClause("step"), pattern)
	tags := db.Model(&models.Tag{}).Select("recipe_id").
		Where(likeClause("tag"), pattern)
	footnotes := db.Model(&models.Footnote{}).Select("recipe_id").
		Where(likeClause("footnote"), pattern)

	return db.Model(&models.Recipe{}).Select("recipes.id").Where(
		db.Where("recipes.id IN (?)", titles).
			Or("recipes.id IN (?)", ingredients).
			Or("recipes.id IN (?)", steps).
			Or("recipes.id IN (?)", tags).
			Or("recipes.id IN (?)", footnotes),
	)
}

// likeClause and likePattern implement case-insensitive substring matching,
// portable across the supported dialects.
func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE ?"
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// splitTerms splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitTerms(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if term := strings.TrimSpace(part); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
