package recipes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/imagedata"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"
	"foodgram/internal/storage"
	"foodgram/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Save(ctx context.Context, folder string, img *imagedata.Image) (string, error) {
	args := m.Called(ctx, folder, img)
	return args.String(0), args.Error(1)
}

func (m *mockImages) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func newService(t *testing.T, db *gorm.DB, images ImageStore) *Service {
	t.Helper()
	return NewService(Deps{
		Transactor:    repository.NewTransactor(db),
		Recipes:       repository.NewRecipeRepository(db),
		Ingredients:   repository.NewIngredientRepository(db),
		Interactions:  repository.NewInteractionRepository(db),
		Subscriptions: repository.NewSubscriptionRepository(db),
		Images:        images,
		Log:           zerolog.Nop(),
	})
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreate_PersistsRecipeAndLines(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	disk := storage.NewDisk(t.TempDir(), "/static")
	svc := newService(t, db, disk)

	author := testutil.CreateUser(t, db, "alice")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	egg := testutil.CreateIngredient(t, db, "egg", "pcs")

	got, err := svc.Create(ctx, author.ID, CreateRecipeRequest{
		Ingredients: []IngredientLine{{ID: flour.ID, Amount: 200}, {ID: egg.ID, Amount: 2}},
		Image:       testutil.PNGDataURI(t),
		Name:        "Pancakes",
		Text:        "Mix and fry",
		CookingTime: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, "alice", got.Author.Username)
	assert.False(t, got.Author.IsSubscribed)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, IngredientAmountResponse{ID: flour.ID, Name: "flour", MeasurementUnit: "g", Amount: 200}, got.Ingredients[0])
	assert.True(t, strings.HasPrefix(got.Image, "/static/recipes/"))
	assert.True(t, strings.HasSuffix(got.Image, ".png"))

	_, err = os.Stat(filepath.Join(disk.BaseDir(), strings.TrimPrefix(got.Image, "/static/")))
	assert.NoError(t, err)
}

func TestCreate_ValidationNothingPersisted(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	images := &mockImages{}
	svc := newService(t, db, images)

	author := testutil.CreateUser(t, db, "alice")
	flour := testutil.CreateIngredient(t, db, "flour", "g")

	valid := func() CreateRecipeRequest {
		return CreateRecipeRequest{
			Ingredients: []IngredientLine{{ID: flour.ID, Amount: 1}},
			Image:       testutil.PNGDataURI(t),
			Name:        "Bread",
			Text:        "Bake",
			CookingTime: 60,
		}
	}

	cases := map[string]func(r *CreateRecipeRequest){
		"repeated ingredient": func(r *CreateRecipeRequest) {
			r.Ingredients = []IngredientLine{{ID: flour.ID, Amount: 1}, {ID: flour.ID, Amount: 2}}
		},
		"empty ingredients": func(r *CreateRecipeRequest) { r.Ingredients = []IngredientLine{} },
		"zero amount":       func(r *CreateRecipeRequest) { r.Ingredients[0].Amount = 0 },
		"zero cooking time": func(r *CreateRecipeRequest) { r.CookingTime = 0 },
		"missing name":      func(r *CreateRecipeRequest) { r.Name = "" },
		"long name":         func(r *CreateRecipeRequest) { r.Name = strings.Repeat("x", 257) },
		"bad image":         func(r *CreateRecipeRequest) { r.Image = "not-an-image" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := valid()
			mutate(&req)

			_, err := svc.Create(ctx, author.ID, req)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}

	assert.Zero(t, countRows(t, db, &domain.Recipe{}))
	assert.Zero(t, countRows(t, db, &domain.RecipeIngredient{}))
	images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_UnknownIngredientRemovesImage(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	images := &mockImages{}
	svc := newService(t, db, images)

	author := testutil.CreateUser(t, db, "alice")
	flour := testutil.CreateIngredient(t, db, "flour", "g")

	images.On("Save", mock.Anything, "recipes", mock.Anything).Return("/static/recipes/x.png", nil).Once()
	images.On("Delete", mock.Anything, "/static/recipes/x.png").Return(nil).Once()

	_, err := svc.Create(ctx, author.ID, CreateRecipeRequest{
		Ingredients: []IngredientLine{{ID: flour.ID, Amount: 1}, {ID: 9999, Amount: 1}},
		Image:       testutil.PNGDataURI(t),
		Name:        "Bread",
		Text:        "Bake",
		CookingTime: 60,
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Zero(t, countRows(t, db, &domain.Recipe{}))
	images.AssertExpectations(t)
}

func TestCreate_StorageFailure(t *testing.T) {
	db := testutil.NewDB(t)
	images := &mockImages{}
	svc := newService(t, db, images)

	author := testutil.CreateUser(t, db, "alice")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	images.On("Save", mock.Anything, "recipes", mock.Anything).Return("", errors.New("disk full"))

	_, err := svc.Create(context.Background(), author.ID, CreateRecipeRequest{
		Ingredients: []IngredientLine{{ID: flour.ID, Amount: 1}},
		Image:       testutil.PNGDataURI(t),
		Name:        "Bread",
		Text:        "Bake",
		CookingTime: 60,
	})
	require.Error(t, err)
	_, isApp := apperr.From(err)
	assert.False(t, isApp)
	assert.Zero(t, countRows(t, db, &domain.Recipe{}))
}

func TestUpdate_OnlyAuthor(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := newService(t, db, &mockImages{})

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup")

	name := "stolen"
	_, err := svc.Update(ctx, bob.ID, r.ID, UpdateRecipeRequest{Name: &name})
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	err = svc.Delete(ctx, bob.ID, r.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = svc.Update(ctx, alice.ID, r.ID+100, UpdateRecipeRequest{Name: &name})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdate_WithoutIngredientsKeepsThem(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := newService(t, db, &mockImages{})

	alice := testutil.CreateUser(t, db, "alice")
	salt := testutil.CreateIngredient(t, db, "salt", "g")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup", testutil.Line{IngredientID: salt.ID, Amount: 5})

	name, minutes := "Borscht", 90
	got, err := svc.Update(ctx, alice.ID, r.ID, UpdateRecipeRequest{Name: &name, CookingTime: &minutes})
	require.NoError(t, err)

	assert.Equal(t, "Borscht", got.Name)
	assert.Equal(t, 90, got.CookingTime)
	assert.Equal(t, r.Text, got.Text)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 5, got.Ingredients[0].Amount)
}

func TestUpdate_ReplacesIngredients(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := newService(t, db, &mockImages{})

	alice := testutil.CreateUser(t, db, "alice")
	salt := testutil.CreateIngredient(t, db, "salt", "g")
	beet := testutil.CreateIngredient(t, db, "beet", "pcs")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup", testutil.Line{IngredientID: salt.ID, Amount: 5})

	lines := []IngredientLine{{ID: beet.ID, Amount: 3}, {ID: salt.ID, Amount: 1}}
	got, err := svc.Update(ctx, alice.ID, r.ID, UpdateRecipeRequest{Ingredients: &lines})
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "beet", got.Ingredients[0].Name)
	assert.Equal(t, 1, got.Ingredients[1].Amount)

	empty := []IngredientLine{}
	_, err = svc.Update(ctx, alice.ID, r.ID, UpdateRecipeRequest{Ingredients: &empty})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	dup := []IngredientLine{{ID: beet.ID, Amount: 1}, {ID: beet.ID, Amount: 1}}
	_, err = svc.Update(ctx, alice.ID, r.ID, UpdateRecipeRequest{Ingredients: &dup})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	// после неудачных попыток набор не изменился
	assert.Equal(t, int64(2), countRows(t, db, &domain.RecipeIngredient{}))
}

func TestUpdate_UnknownIngredientRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := newService(t, db, &mockImages{})

	alice := testutil.CreateUser(t, db, "alice")
	salt := testutil.CreateIngredient(t, db, "salt", "g")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup", testutil.Line{IngredientID: salt.ID, Amount: 5})

	name := "renamed"
	lines := []IngredientLine{{ID: 777, Amount: 1}}
	_, err := svc.Update(ctx, alice.ID, r.ID, UpdateRecipeRequest{Name: &name, Ingredients: &lines})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := svc.Get(ctx, 0, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "soup", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, salt.ID, got.Ingredients[0].ID)
}

func TestUpdate_ImageReplacesOldFile(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	images := &mockImages{}
	svc := newService(t, db, images)

	alice := testutil.CreateUser(t, db, "alice")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup")

	images.On("Save", mock.Anything, "recipes", mock.Anything).Return("/static/recipes/new.png", nil).Once()
	images.On("Delete", mock.Anything, r.Image).Return(nil).Once()

	img := testutil.PNGDataURI(t)
	got, err := svc.Update(ctx, alice.ID, r.ID, UpdateRecipeRequest{Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "/static/recipes/new.png", got.Image)
	images.AssertExpectations(t)
}

func TestDelete_RemovesLinesEdgesAndCartItems(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	images := &mockImages{}
	svc := newService(t, db, images)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	flour := testutil.CreateIngredient(t, db, "flour", "g")
	gone := testutil.CreateRecipe(t, db, alice.ID, "bread", testutil.Line{IngredientID: flour.ID, Amount: 3})
	kept := testutil.CreateRecipe(t, db, alice.ID, "cake", testutil.Line{IngredientID: flour.ID, Amount: 2})
	testutil.AddEdge(t, db, domain.KindFavorite, bob.ID, gone.ID)
	testutil.AddEdge(t, db, domain.KindShoppingCart, bob.ID, gone.ID)
	testutil.AddEdge(t, db, domain.KindShoppingCart, bob.ID, kept.ID)

	images.On("Delete", mock.Anything, gone.Image).Return(nil).Once()

	require.NoError(t, svc.Delete(ctx, alice.ID, gone.ID))

	assert.Equal(t, int64(1), countRows(t, db, &domain.Recipe{}))
	assert.Equal(t, int64(1), countRows(t, db, &domain.RecipeIngredient{}))
	assert.Zero(t, countRows(t, db, &domain.Favorite{}))
	assert.Equal(t, int64(1), countRows(t, db, &domain.ShoppingCart{}))

	items, err := repository.NewShoppingListRepository(db).Aggregate(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []repository.ShoppingItem{{Name: "flour", MeasurementUnit: "g", TotalAmount: 2}}, items)

	_, err = svc.Get(ctx, 0, gone.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	images.AssertExpectations(t)
}

func TestGet_ViewerFlags(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := newService(t, db, &mockImages{})

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup")
	testutil.AddEdge(t, db, domain.KindFavorite, bob.ID, r.ID)
	testutil.Subscribe(t, db, bob.ID, alice.ID)

	asBob, err := svc.Get(ctx, bob.ID, r.ID)
	require.NoError(t, err)
	assert.True(t, asBob.IsFavorited)
	assert.False(t, asBob.IsInShoppingCart)
	assert.True(t, asBob.Author.IsSubscribed)

	anon, err := svc.Get(ctx, 0, r.ID)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.Author.IsSubscribed)
}

func TestList_FiltersAndFlags(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := newService(t, db, &mockImages{})

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	soup := testutil.CreateRecipe(t, db, alice.ID, "soup")
	cake := testutil.CreateRecipe(t, db, bob.ID, "cake")
	testutil.AddEdge(t, db, domain.KindShoppingCart, bob.ID, soup.ID)

	params := pagination.Params{Page: 1, Limit: 6}

	all, err := svc.List(ctx, bob.ID, ListQuery{}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Count)
	require.Len(t, all.Results, 2)
	assert.Equal(t, cake.ID, all.Results[0].ID)
	assert.True(t, all.Results[1].IsInShoppingCart)

	cart, err := svc.List(ctx, bob.ID, ListQuery{IsInShoppingCart: true}, params)
	require.NoError(t, err)
	require.Len(t, cart.Results, 1)
	assert.Equal(t, soup.ID, cart.Results[0].ID)

	// аноним: фильтр по корзине игнорируется
	anon, err := svc.List(ctx, 0, ListQuery{IsInShoppingCart: true}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), anon.Count)

	byAuthor, err := svc.List(ctx, 0, ListQuery{AuthorID: &bob.ID}, params)
	require.NoError(t, err)
	require.Len(t, byAuthor.Results, 1)
	assert.Equal(t, "cake", byAuthor.Results[0].Name)
}
