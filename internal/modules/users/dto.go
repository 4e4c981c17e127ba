package users

import (
	"strings"

	"foodgram/internal/modules/shared"
	"foodgram/internal/pkg/validator"
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	return validator.Validate(r)
}

type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// AuthorResponse — пользователь с превью рецептов (подписки, /users/me).
type AuthorResponse struct {
	shared.UserResponse
	Recipes      []shared.RecipeMinified `json:"recipes"`
	RecipesCount int64                   `json:"recipes_count"`
}
