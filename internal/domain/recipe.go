package domain

import "time"

// Ingredient — справочник, заполняется cmd/load_ingredients.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:128;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"size:512;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string {
	return "recipes"
}

func (r *Recipe) IsAuthor(userID int64) bool {
	return r != nil && r.AuthorID == userID
}

// RecipeIngredient — строка рецепта: сколько ингредиента нужно.
type RecipeIngredient struct {
	ID           int64 `json:"id" gorm:"primaryKey"`
	RecipeID     int64 `json:"recipe_id" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"ingredient_id" gorm:"not null;index;uniqueIndex:idx_recipe_ingredient"`
	Amount       int   `json:"amount" gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
