package users

import (
	"net/http"
	"strconv"

	"foodgram/internal/middleware"
	"foodgram/internal/modules/shared"
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
		public.POST("/users", h.Register)
		public.GET("/users", h.List)
		public.GET("/users/:id", h.Get)
	}

	if protected != nil {
		protected.GET("/users/me", h.Me)
		protected.PUT("/users/me/avatar", h.SetAvatar)
		protected.DELETE("/users/me/avatar", h.DeleteAvatar)
		protected.GET("/users/subscriptions", h.Subscriptions)
		protected.POST("/users/:id/subscribe", h.Follow)
		protected.DELETE("/users/:id/subscribe", h.Unfollow)
	}
}

// Register — POST /users
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := shared.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// List — GET /users?page=&limit=
func (h *Handler) List(c *gin.Context) {
	viewerID, _ := middleware.UserID(c)
	page, err := h.svc.List(c.Request.Context(), viewerID, pagination.FromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// Get — GET /users/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	viewerID, _ := middleware.UserID(c)
	user, err := h.svc.Get(c.Request.Context(), viewerID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// Me — GET /users/me?recipes_limit=
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	me, err := h.svc.Me(c.Request.Context(), userID, parseRecipesLimit(c.Query("recipes_limit")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

// SetAvatar — PUT /users/me/avatar
func (h *Handler) SetAvatar(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var req AvatarRequest
	if err := shared.BindJSON(c, &req); err != nil {
		response.FromError(c, err)
		return
	}

	avatar, err := h.svc.SetAvatar(c.Request.Context(), userID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, avatar)
}

// DeleteAvatar — DELETE /users/me/avatar
func (h *Handler) DeleteAvatar(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteAvatar(c.Request.Context(), userID); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Follow — POST /users/:id/subscribe?recipes_limit=
func (h *Handler) Follow(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	authorID, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	author, err := h.svc.Follow(c.Request.Context(), userID, authorID, parseRecipesLimit(c.Query("recipes_limit")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, author)
}

// Unfollow — DELETE /users/:id/subscribe
func (h *Handler) Unfollow(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	authorID, err := shared.PathID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.svc.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions — GET /users/subscriptions?page=&limit=&recipes_limit=
func (h *Handler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	page, err := h.svc.Subscriptions(c.Request.Context(), userID, pagination.FromQuery(c), parseRecipesLimit(c.Query("recipes_limit")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// parseRecipesLimit: пусто, не число или отрицательное — без ограничения.
func parseRecipesLimit(raw string) int {
	if raw == "" {
		return AllRecipes
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return AllRecipes
	}
	return n
}
