package recipes

import "foodgram/internal/pkg/apperr"

var (
	ErrNotAuthor = apperr.Forbidden("only the author can modify this recipe")
)

func duplicateIngredients() error {
	return apperr.ValidationWithDetails("validation failed", map[string]string{
		"ingredients": "ingredients must not repeat",
	})
}
