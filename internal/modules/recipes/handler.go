package recipes

import (
	"net/http"
	"strconv"

	"foodgram/internal/middleware"
	"foodgram/internal/modules/shared"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes: public — группа с OptionalAuth, protected — с JWTAuth.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/recipes", h.List)
		public.GET("/recipes/:id", h.Get)
	}

	if protected != nil {
		protected.POST("/recipes", h.Create)
		protected.PATCH("/recipes/:id", h.Update)
		protected.DELETE("/recipes/:id", h.Delete)
	}
}

// List — GET /recipes?page=&limit=&author=&is_favorited=&is_in_shopping_cart=
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || authorID <= 0 {
			response.FromError(c, apperr.ValidationWithDetails("invalid filter", map[string]string{"author": "must be a positive integer"}))
			return
		}
		q.AuthorID = &authorID
	}
	q.IsFavorited = shared.QueryBool(c, "is_favorited")
	q.IsInShoppingCart = shared.QueryBool(c, "is_in_shopping_cart")

	viewerID, _ := middleware.UserID(c)
	page, err := h.svc.List(c.Request.Context(), viewerID, q, pagination.FromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get — GET /recipes/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	viewerID, _ := middleware.UserID(c)
	recipe, err := h.svc.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Create — POST /recipes
func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if err := shared.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	recipe, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, recipe)
}

// Update — PATCH /recipes/:id
func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req UpdateRecipeRequest
	if err := shared.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	recipe, err := h.svc.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recipe)
}

// Delete — DELETE /recipes/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
