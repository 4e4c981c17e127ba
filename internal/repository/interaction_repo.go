package repository

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"

	"gorm.io/gorm"
)

// InteractionRepository хранит связи user -> recipe (избранное, корзина).
// Таблица выбирается по kind.
type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) WithTx(tx *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: tx}
}

func (r *InteractionRepository) table(ctx context.Context, kind domain.RelationKind) (*gorm.DB, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}
	return r.db.WithContext(ctx).Table(kind.Table()), nil
}

// Add inserts the edge. A duplicate, including one created concurrently,
// surfaces as ConflictError.
func (r *InteractionRepository) Add(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	q, err := r.table(ctx, kind)
	if err != nil {
		return err
	}

	edge := &domain.InteractionEdge{UserID: userID, RecipeID: recipeID}
	if err := q.Create(edge).Error; err != nil {
		if IsUniqueViolation(err) {
			return apperr.Conflict(fmt.Sprintf("recipe is already in %s", kind.Label())).WithCause(err)
		}
		return err
	}
	return nil
}

func (r *InteractionRepository) Remove(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	q, err := r.table(ctx, kind)
	if err != nil {
		return err
	}

	res := q.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&domain.InteractionEdge{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("recipe is not in %s", kind.Label()))
	}
	return nil
}

func (r *InteractionRepository) Exists(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (bool, error) {
	q, err := r.table(ctx, kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = q.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

// ExistingRecipeIDs returns which of recipeIDs have an edge from userID.
func (r *InteractionRepository) ExistingRecipeIDs(ctx context.Context, kind domain.RelationKind, userID int64, recipeIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	q, err := r.table(ctx, kind)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := q.Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// DeleteByRecipe removes every favorite and cart edge of the recipe.
func (r *InteractionRepository) DeleteByRecipe(ctx context.Context, recipeID int64) error {
	for _, kind := range []domain.RelationKind{domain.KindFavorite, domain.KindShoppingCart} {
		q, err := r.table(ctx, kind)
		if err != nil {
			return err
		}
		if err := q.Where("recipe_id = ?", recipeID).Delete(&domain.InteractionEdge{}).Error; err != nil {
			return fmt.Errorf("delete %s edges: %w", kind, err)
		}
	}
	return nil
}
