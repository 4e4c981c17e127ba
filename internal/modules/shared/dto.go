// Package shared holds response shapes used by more than one module.
package shared

import "foodgram/internal/domain"

// UserResponse — публичное представление пользователя.
type UserResponse struct {
	Email        string  `json:"email"`
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Avatar       *string `json:"avatar"`
	IsSubscribed bool    `json:"is_subscribed"`
}

func NewUserResponse(u *domain.User, subscribed bool) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Avatar:       u.Avatar,
		IsSubscribed: subscribed,
	}
}

// RecipeMinified is the short recipe card used in favorites, cart and
// subscription responses.
type RecipeMinified struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeMinified(r *domain.Recipe) RecipeMinified {
	return RecipeMinified{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func NewRecipeMinifiedList(recipes []domain.Recipe) []RecipeMinified {
	out := make([]RecipeMinified, len(recipes))
	for i := range recipes {
		out[i] = NewRecipeMinified(&recipes[i])
	}
	return out
}
