package ingredients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"foodgram/internal/repository"
	"foodgram/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandler_ListAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	sugar := testutil.CreateIngredient(t, db, "sugar", "g")
	testutil.CreateIngredient(t, db, "salt", "g")
	testutil.CreateIngredient(t, db, "butter", "g")

	router := gin.New()
	NewHandler(repository.NewIngredientRepository(db)).RegisterRoutes(router.Group("/api/v1"))

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/api/v1/ingredients?name=S")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []IngredientResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, "salt", list.Data[0].Name)
	assert.Equal(t, "sugar", list.Data[1].Name)

	w = get("/api/v1/ingredients")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Data, 3)

	w = get("/api/v1/ingredients?name=zzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	w = get("/api/v1/ingredients/" + strconv.FormatInt(sugar.ID, 10))
	require.Equal(t, http.StatusOK, w.Code)
	var one struct {
		Data IngredientResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, IngredientResponse{ID: sugar.ID, Name: "sugar", MeasurementUnit: "g"}, one.Data)

	assert.Equal(t, http.StatusNotFound, get("/api/v1/ingredients/9999").Code)
	assert.Equal(t, http.StatusBadRequest, get("/api/v1/ingredients/zero").Code)
}
