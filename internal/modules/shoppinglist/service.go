// Package shoppinglist builds the downloadable shopping list from the
// recipes in a user's cart.
package shoppinglist

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"foodgram/internal/repository"
)

const header = "Список покупок:\n\n"

type Service struct {
	repo *repository.ShoppingListRepository
}

func NewService(repo *repository.ShoppingListRepository) *Service {
	return &Service{repo: repo}
}

// Build returns one item per (name, unit) with amounts summed over the cart.
func (s *Service) Build(ctx context.Context, userID int64) ([]repository.ShoppingItem, error) {
	items, err := s.repo.Aggregate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return items, nil
}

// Render пишет текстовый документ: заголовок и по строке на ингредиент.
func Render(w io.Writer, items []repository.ShoppingItem) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := fmt.Fprintf(bw, "%s (%s) - %d\n", it.Name, it.MeasurementUnit, it.TotalAmount); err != nil {
			return err
		}
	}
	return bw.Flush()
}
