package repository

import (
	"context"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingListRepository_Aggregate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewShoppingListRepository(db)

	u := testutil.CreateUser(t, db, "alice")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	egg := testutil.CreateIngredient(t, db, "egg", "pcs")

	a := testutil.CreateRecipe(t, db, u.ID, "pancakes",
		testutil.Line{IngredientID: flour.ID, Amount: 2},
		testutil.Line{IngredientID: egg.ID, Amount: 1},
	)
	b := testutil.CreateRecipe(t, db, u.ID, "bread",
		testutil.Line{IngredientID: flour.ID, Amount: 3},
	)
	testutil.AddEdge(t, db, domain.KindShoppingCart, u.ID, a.ID)
	testutil.AddEdge(t, db, domain.KindShoppingCart, u.ID, b.ID)

	items, err := repo.Aggregate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 5},
		{Name: "egg", MeasurementUnit: "pcs", TotalAmount: 1},
	}, items)

	again, err := repo.Aggregate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestShoppingListRepository_FirstSeenOrder(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewShoppingListRepository(db)

	u := testutil.CreateUser(t, db, "alice")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	egg := testutil.CreateIngredient(t, db, "egg", "pcs")

	// строка муки в bread создана раньше всех, но bread лежит в корзине вторым
	bread := testutil.CreateRecipe(t, db, u.ID, "bread",
		testutil.Line{IngredientID: flour.ID, Amount: 1},
	)
	pancakes := testutil.CreateRecipe(t, db, u.ID, "pancakes",
		testutil.Line{IngredientID: egg.ID, Amount: 1},
		testutil.Line{IngredientID: flour.ID, Amount: 2},
	)
	testutil.AddEdge(t, db, domain.KindShoppingCart, u.ID, pancakes.ID)
	testutil.AddEdge(t, db, domain.KindShoppingCart, u.ID, bread.ID)

	items, err := repo.Aggregate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{
		{Name: "egg", MeasurementUnit: "pcs", TotalAmount: 1},
		{Name: "flour", MeasurementUnit: "g", TotalAmount: 3},
	}, items)
}

func TestShoppingListRepository_SameNameDifferentUnit(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewShoppingListRepository(db)

	u := testutil.CreateUser(t, db, "alice")
	sugarG := testutil.CreateIngredient(t, db, "sugar", "g")
	sugarSpoon := testutil.CreateIngredient(t, db, "sugar", "tbsp")

	r := testutil.CreateRecipe(t, db, u.ID, "tea",
		testutil.Line{IngredientID: sugarG.ID, Amount: 10},
		testutil.Line{IngredientID: sugarSpoon.ID, Amount: 2},
	)
	testutil.AddEdge(t, db, domain.KindShoppingCart, u.ID, r.ID)

	items, err := repo.Aggregate(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, "tbsp", items[1].MeasurementUnit)
}

func TestShoppingListRepository_OnlyOwnCart(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewShoppingListRepository(db)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	salt := testutil.CreateIngredient(t, db, "salt", "g")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup", testutil.Line{IngredientID: salt.ID, Amount: 4})
	testutil.AddEdge(t, db, domain.KindShoppingCart, bob.ID, r.ID)
	// избранное не попадает в список покупок
	testutil.AddEdge(t, db, domain.KindFavorite, alice.ID, r.ID)

	items, err := repo.Aggregate(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items, err = repo.Aggregate(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingItem{{Name: "salt", MeasurementUnit: "g", TotalAmount: 4}}, items)
}
