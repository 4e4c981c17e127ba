package interactions

import (
	"net/http"

	"foodgram/internal/domain"
	"foodgram/internal/middleware"
	"foodgram/internal/modules/shared"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes регистрирует избранное и корзину. Все маршруты требуют JWT.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	for _, kind := range []domain.RelationKind{domain.KindFavorite, domain.KindShoppingCart} {
		path := "/recipes/:id/" + segment(kind)
		protected.POST(path, h.add(kind))
		protected.DELETE(path, h.remove(kind))
	}
}

func segment(kind domain.RelationKind) string {
	if kind == domain.KindShoppingCart {
		return "shopping_cart"
	}
	return "favorite"
}

// add добавляет рецепт в набор
//
// @Summary Добавить рецепт в избранное или корзину
// @Tags Interactions
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 201 {object} shared.RecipeMinified
// @Failure 409 {object} response.ErrorResponse "Рецепт уже в наборе"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID рецепта"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Рецепт не найден"
// @Router /recipes/{id}/favorite [post]
// @Router /recipes/{id}/shopping_cart [post]
func (h *Handler) add(kind domain.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.RequireUser(c)
		if !ok {
			return
		}
		recipeID, err := shared.PathID(c, "id")
		if err != nil {
			response.FromError(c, err)
			return
		}

		card, err := h.svc.Add(c.Request.Context(), kind, userID, recipeID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusCreated, card)
	}
}

// remove убирает рецепт из набора
//
// @Summary Удалить рецепт из избранного или корзины
// @Tags Interactions
// @Security BearerAuth
// @Param id path int true "ID рецепта"
// @Success 204
// @Failure 404 {object} response.ErrorResponse "Рецепта нет в наборе"
// @Router /recipes/{id}/favorite [delete]
// @Router /recipes/{id}/shopping_cart [delete]
func (h *Handler) remove(kind domain.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.RequireUser(c)
		if !ok {
			return
		}
		recipeID, err := shared.PathID(c, "id")
		if err != nil {
			response.FromError(c, err)
			return
		}

		if err := h.svc.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
			response.FromError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
