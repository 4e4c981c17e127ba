// Package ingredients exposes the read-only ingredient reference.
package ingredients

import (
	"net/http"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/modules/shared"
	"foodgram/internal/pkg/response"
	"foodgram/internal/repository"

	"github.com/gin-gonic/gin"
)

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func newIngredientResponse(i *domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

type Handler struct {
	repo *repository.IngredientRepository
}

func NewHandler(repo *repository.IngredientRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(public *gin.RouterGroup) {
	public.GET("/ingredients", h.List)
	public.GET("/ingredients/:id", h.Get)
}

// List — GET /ingredients?name=
// Фильтр по началу названия без учёта регистра, без пагинации.
func (h *Handler) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), strings.TrimSpace(c.Query("name")))
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]IngredientResponse, len(items))
	for i := range items {
		out[i] = newIngredientResponse(&items[i])
	}
	response.Success(c, http.StatusOK, out)
}

// Get — GET /ingredients/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	item, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, newIngredientResponse(item))
}
