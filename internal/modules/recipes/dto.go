package recipes

import (
	"time"

	"foodgram/internal/domain"
	"foodgram/internal/modules/shared"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/validator"
)

// IngredientLine — ингредиент в запросе: id из справочника и количество.
type IngredientLine struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"gte=1"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientLine `json:"ingredients" validate:"required,min=1,dive"`
	Image       string           `json:"image" validate:"required"`
	Name        string           `json:"name" validate:"required,max=256"`
	Text        string           `json:"text" validate:"required"`
	CookingTime int              `json:"cooking_time" validate:"gte=1"`
}

func (r *CreateRecipeRequest) Validate() error {
	if err := validator.Validate(r); err != nil {
		return err
	}
	return checkDuplicates(r.Ingredients)
}

// UpdateRecipeRequest — PATCH: nil поля не меняются. Ingredients, если
// переданы, заменяют весь набор.
type UpdateRecipeRequest struct {
	Ingredients *[]IngredientLine `json:"ingredients" validate:"omitnil,min=1,dive"`
	Image       *string           `json:"image" validate:"omitnil,min=1"`
	Name        *string           `json:"name" validate:"omitnil,min=1,max=256"`
	Text        *string           `json:"text" validate:"omitnil,min=1"`
	CookingTime *int              `json:"cooking_time" validate:"omitnil,gte=1"`
}

func (r *UpdateRecipeRequest) Validate() error {
	if err := validator.Validate(r); err != nil {
		return err
	}
	if r.Ingredients != nil {
		return checkDuplicates(*r.Ingredients)
	}
	return nil
}

func checkDuplicates(lines []IngredientLine) error {
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ID]; ok {
			return duplicateIngredients()
		}
		seen[l.ID] = struct{}{}
	}
	return nil
}

func toDomainLines(lines []IngredientLine) []domain.RecipeIngredient {
	out := make([]domain.RecipeIngredient, len(lines))
	for i, l := range lines {
		out[i] = domain.RecipeIngredient{IngredientID: l.ID, Amount: l.Amount}
	}
	return out
}

func lineIDs(lines []IngredientLine) []int64 {
	ids := make([]int64, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	return ids
}

// ListQuery — фильтры GET /recipes. Флаги учитываются только для
// авторизованных.
type ListQuery struct {
	AuthorID         *int64
	IsFavorited      bool
	IsInShoppingCart bool
}

type IngredientAmountResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Name             string                     `json:"name"`
	Author           shared.UserResponse        `json:"author"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
	PubDate          time.Time                  `json:"pub_date"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

type viewerFlags struct {
	favorited  bool
	inCart     bool
	subscribed bool
}

func toRecipeResponse(r *domain.Recipe, flags viewerFlags) RecipeResponse {
	ingredients := make([]IngredientAmountResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		item := IngredientAmountResponse{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	return RecipeResponse{
		ID:               r.ID,
		Name:             r.Name,
		Author:           shared.NewUserResponse(r.Author, flags.subscribed),
		Ingredients:      ingredients,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
		IsFavorited:      flags.favorited,
		IsInShoppingCart: flags.inCart,
	}
}

func unknownIngredients(ids []int64) error {
	return apperr.NotFound("ingredient not found").WithDetails(map[string]any{"ingredients": ids})
}
