package shoppinglist

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram/internal/domain"
	"foodgram/internal/repository"
	"foodgram/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandler_Download(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	salt := testutil.CreateIngredient(t, db, "соль", "г")
	r := testutil.CreateRecipe(t, db, alice.ID, "soup", testutil.Line{IngredientID: salt.ID, Amount: 5})
	testutil.AddEdge(t, db, domain.KindShoppingCart, alice.ID, r.ID)

	router := gin.New()
	protected := router.Group("/api/v1", func(c *gin.Context) {
		c.Set("user_id", alice.ID)
		c.Next()
	})
	NewHandler(NewService(repository.NewShoppingListRepository(db))).RegisterRoutes(protected)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/download_shopping_cart", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Список покупок:\n\nсоль (г) - 5\n", w.Body.String())
}

func TestHandler_DownloadAnonymous(t *testing.T) {
	db := testutil.NewDB(t)

	router := gin.New()
	NewHandler(NewService(repository.NewShoppingListRepository(db))).RegisterRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/download_shopping_cart", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
