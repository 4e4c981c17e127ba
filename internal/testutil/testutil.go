// Package testutil holds fixtures shared by repository, service and
// handler tests.
package testutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"foodgram/internal/database"
	"foodgram/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
// One connection only: a query issued outside an open transaction would block.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *domain.Ingredient {
	t.Helper()
	i := &domain.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(i).Error)
	return i
}

// Line is a shorthand for a recipe ingredient line in fixtures.
type Line struct {
	IngredientID int64
	Amount       int
}

// CreateRecipe inserts a recipe with its lines directly, bypassing services.
func CreateRecipe(t *testing.T, db *gorm.DB, authorID int64, name string, lines ...Line) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		AuthorID:    authorID,
		Name:        name,
		Text:        name + " text",
		Image:       "/static/recipes/" + name + ".png",
		CookingTime: 10,
	}
	require.NoError(t, db.Omit("Author", "Ingredients").Create(r).Error)

	for _, l := range lines {
		ri := &domain.RecipeIngredient{RecipeID: r.ID, IngredientID: l.IngredientID, Amount: l.Amount}
		require.NoError(t, db.Omit("Ingredient").Create(ri).Error)
	}
	return r
}

func AddEdge(t *testing.T, db *gorm.DB, kind domain.RelationKind, userID, recipeID int64) {
	t.Helper()
	edge := &domain.InteractionEdge{UserID: userID, RecipeID: recipeID}
	require.NoError(t, db.Table(kind.Table()).Create(edge).Error)
}

func Subscribe(t *testing.T, db *gorm.DB, userID, authorID int64) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Subscription{UserID: userID, AuthorID: authorID}).Error)
}

// PNGDataURI returns a valid 2x2 PNG as a data URI.
func PNGDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
