package repository

import (
	"context"

	"foodgram/internal/domain"

	"gorm.io/gorm"
)

// ShoppingItem — одна строка списка покупок.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

type ShoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) *ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// Aggregate sums amounts over every recipe in the user's cart, grouped by
// (name, unit). Rows come in order of first appearance when the cart is
// walked edge by edge and each recipe line by line.
func (r *ShoppingListRepository) Aggregate(ctx context.Context, userID int64) ([]ShoppingItem, error) {
	db := r.db.WithContext(ctx)

	// seq нумерует строки в порядке обхода корзины
	walk := db.
		Table(domain.KindShoppingCart.Table()+" AS sc").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, ri.amount AS amount, " +
			"ROW_NUMBER() OVER (ORDER BY sc.id, ri.id) AS seq").
		Joins("JOIN recipe_ingredients AS ri ON ri.recipe_id = sc.recipe_id").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("sc.user_id = ?", userID)

	items := []ShoppingItem{}
	err := db.
		Table("(?) AS w", walk).
		Select("w.name AS name, w.measurement_unit AS measurement_unit, SUM(w.amount) AS total_amount").
		Group("w.name, w.measurement_unit").
		Order("MIN(w.seq) ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
