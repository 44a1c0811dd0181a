package models

import (
	"time"
)

// Recipe is the recipe header row. Child collections (tags, ingredients,
// steps, footnotes) are owned by the recipe and deleted with it.
type Recipe struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string  `gorm:"size:255;not null;index:idx_recipes_title" json:"title"`
	Source      *string `gorm:"size:255" json:"source"`
	SourceURL   *string `gorm:"column:source_url;size:512" json:"source_url"`
	SubmittedBy string  `gorm:"column:submitted_by;size:255;not null;index" json:"submitted_by"`
	Servings    *string `gorm:"size:64" json:"servings"`
	Category    string  `gorm:"size:64;not null;index" json:"category"`
	Vegetarian  bool    `gorm:"not null;default:false" json:"vegetarian"`
	Featured    bool    `gorm:"not null;default:false" json:"featured"`
	Confirmed   bool    `gorm:"not null;default:false" json:"confirmed"`
	// CreatedAt is set once at creation and never mutated afterwards.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Tags        []Tag        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Steps       []Step       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Footnotes   []Footnote   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Tag is a free-text label on a recipe, stored lower-cased. Tags carry no
// ordinal; the set is what matters.
type Tag struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	RecipeID uint64 `gorm:"column:recipe_id;not null;index"`
	Tag      string `gorm:"size:64;not null;index"`
}

// Ingredient is one ingredient line with an optional footnote companion.
// RecipeOrder is the zero-based position in the input array at write time.
type Ingredient struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement"`
	RecipeID    uint64  `gorm:"column:recipe_id;not null;index"`
	Ingredient  string  `gorm:"size:512;not null"`
	Footnote    *string `gorm:"size:512"`
	RecipeOrder int     `gorm:"column:recipe_order;not null"`
}

// Step is one instruction line, ordered by RecipeOrder.
type Step struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	RecipeID    uint64 `gorm:"column:recipe_id;not null;index"`
	Step        string `gorm:"type:text;not null"`
	RecipeOrder int    `gorm:"column:recipe_order;not null"`
}

// Footnote is a free-standing recipe note, ordered by RecipeOrder.
type Footnote struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	RecipeID    uint64 `gorm:"column:recipe_id;not null;index"`
	Footnote    string `gorm:"type:text;not null"`
	RecipeOrder int    `gorm:"column:recipe_order;not null"`
}

// TableName overrides the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// TableName overrides the table name for Tag
func (Tag) TableName() string {
	return "tags"
}

// TableName overrides the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// TableName overrides the table name for Step
func (Step) TableName() string {
	return "steps"
}

// TableName overrides the table name for Footnote
func (Footnote) TableName() string {
	return "footnotes"
}
