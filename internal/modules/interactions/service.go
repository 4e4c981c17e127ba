// Package interactions handles the per-user recipe sets: favorites and the
// shopping cart. Both behave identically and differ only by table.
package interactions

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/modules/shared"
	"foodgram/internal/repository"
)

type Service struct {
	recipes      *repository.RecipeRepository
	interactions *repository.InteractionRepository
}

func NewService(recipes *repository.RecipeRepository, interactions *repository.InteractionRepository) *Service {
	return &Service{recipes: recipes, interactions: interactions}
}

// Add кладёт рецепт в набор пользователя и возвращает короткую карточку.
// Повторное добавление — Conflict.
func (s *Service) Add(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (*shared.RecipeMinified, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}

	recipe, err := s.recipes.GetBrief(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.interactions.Add(ctx, kind, userID, recipeID); err != nil {
		return nil, err
	}

	card := shared.NewRecipeMinified(recipe)
	return &card, nil
}

// Remove убирает рецепт из набора. Несуществующий рецепт и отсутствие
// связи — оба NotFound, но с разными сообщениями.
func (s *Service) Remove(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown relation kind %q", kind)
	}

	if _, err := s.recipes.GetBrief(ctx, recipeID); err != nil {
		return err
	}
	return s.interactions.Remove(ctx, kind, userID, recipeID)
}

func (s *Service) Exists(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (bool, error) {
	return s.interactions.Exists(ctx, kind, userID, recipeID)
}
