package services

import (
	"errors"

	"github.com/localtable/recipedb/internal/models"
	"github.com/localtable/recipedb/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// IngredientDetail is one ingredient line in API output.
type IngredientDetail struct {
	Ingredient string  `json:"ingredient"`
	Footnote   *string `json:"footnote"`
}

// RecipeDetail is the fully assembled recipe: header fields merged with all
// child collections, ordering preserved as stored.
type RecipeDetail struct {
	models.Recipe
	Tags        []string           `json:"tags"`
	Ingredients []IngredientDetail `json:"ingredients"`
	Steps       []string           `json:"steps"`
	Footnotes   []string           `json:"footnotes"`
}

// RecipeSummary is the header-plus-tags view used for listings and for
// hydrating search results without fetching ingredients or steps.
type RecipeSummary struct {
	models.Recipe
	Tags []string `json:"tags"`
}

// GetFullRecipe fetches one recipe and stitches its full representation. A
// missing id is a typed 404; any other storage failure short-circuits with
// its redacted detail.
func GetFullRecipe(db *gorm.DB, id uint64) (*RecipeDetail, error) {
	var rec models.Recipe
	err := fetchQueryFirst("Error fetching recipe.", func() *gorm.DB {
		return db.First(&rec, id)
	})
	if errors.Is(err, types.ErrNoRows) {
		return nil, &types.QueryError{Status: 404, Message: "Recipe not found."}
	}
	if err != nil {
		return nil, err
	}

	detail := &RecipeDetail{
		Recipe:      rec,
		Tags:        []string{},
		Ingredients: []IngredientDetail{},
		Steps:       []string{},
		Footnotes:   []string{},
	}

	if err := fetchQuery("Error fetching tags.", func() *gorm.DB {
		return db.Model(&models.Tag{}).Where("recipe_id = ?", id).Pluck("tag", &detail.Tags)
	}); err != nil {
		return nil, err
	}

	var ingredients []models.Ingredient
	if err := fetchQuery("Error fetching ingredients.", func() *gorm.DB {
		return db.Where("recipe_id = ?", id).Order("recipe_order").Find(&ingredients)
	}); err != nil {
		return nil, err
	}
	for _, ing := range ingredients {
		detail.Ingredients = append(detail.Ingredients, IngredientDetail{
			Ingredient: ing.Ingredient,
			Footnote:   ing.Footnote,
		})
	}

	if err := fetchQuery("Error fetching steps.", func() *gorm.DB {
		return db.Model(&models.Step{}).Where("recipe_id = ?", id).
			Order("recipe_order").Pluck("step", &detail.Steps)
	}); err != nil {
		return nil, err
	}

	if err := fetchQuery("Error fetching footnotes.", func() *gorm.DB {
		return db.Model(&models.Footnote{}).Where("recipe_id = ?", id).
			Order("recipe_order").Pluck("footnote", &detail.Footnotes)
	}); err != nil {
		return nil, err
	}

	return detail, nil
}

// GetAllRecipes returns summaries for every recipe, ordered by title.
func GetAllRecipes(db *gorm.DB) ([]RecipeSummary, error) {
	return listRecipes(db, nil)
}

// GetAllConfirmedRecipes returns summaries for confirmed recipes only.
func GetAllConfirmedRecipes(db *gorm.DB) ([]RecipeSummary, error) {
	return listRecipes(db, func(query *gorm.DB) *gorm.DB {
		return query.Where("confirmed = ?", true)
	})
}

// GetRecipesByIDs hydrates search-result ids into summaries, ordered by
// title. Recipes without tags still appear, with an empty tag list.
func GetRecipesByIDs(db *gorm.DB, ids []uint64) ([]RecipeSummary, error) {
	if len(ids) == 0 {
		return []RecipeSummary{}, nil
	}
	return listRecipes(db, func(query *gorm.DB) *gorm.DB {
		return query.Where("recipes.id IN ?", ids)
	})
}

func listRecipes(db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]RecipeSummary, error) {
	query := db.Model(&models.Recipe{}).Preload("Tags").Order("recipes.title")
	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_recipes_title"))
	}
	if scope != nil {
		query = scope(query)
	}

	var recipes []models.Recipe
	if err := fetchQuery("Error fetching recipes.", func() *gorm.DB {
		return query.Find(&recipes)
	}); err != nil {
		return nil, err
	}

	summaries := make([]RecipeSummary, len(recipes))
	for i, rec := range recipes {
		tags := make([]string, len(rec.Tags))
		for j, tag := range rec.Tags {
			tags[j] = tag.Tag
		}
		rec.Tags = nil
		summaries[i] = RecipeSummary{Recipe: rec, Tags: tags}
	}
	return summaries, nil
}

// ListTags returns the distinct set of tags in use, sorted.
func ListTags(db *gorm.DB) ([]string, error) {
	tags := []string{}
	if err := fetchQuery("Error fetching tags.", func() *gorm.DB {
		return db.Model(&models.Tag{}).Distinct().Order("tag").Pluck("tag", &tags)
	}); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListSubmitters returns the distinct set of submitters, sorted.
func ListSubmitters(db *gorm.DB) ([]string, error) {
	submitters := []string{}
	if err := fetchQuery("Error fetching submitters.", func() *gorm.DB {
		return db.Model(&models.Recipe{}).Distinct().Order("submitted_by").
			Pluck("submitted_by", &submitters)
	}); err != nil {
		return nil, err
	}
	return submitters, nil
}

// ListCategories returns the distinct set of categories, sorted.
func ListCategories(db *gorm.DB) ([]string, error) {
	categories := []string{}
	if err := fetchQuery("Error fetching categories.", func() *gorm.DB {
		return db.Model(&models.Recipe{}).Distinct().Order("category").
			Pluck("category", &categories)
	}); err != nil {
		return nil, err
	}
	return categories, nil
}
