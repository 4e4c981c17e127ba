package shoppinglist

import (
	"bytes"
	"net/http"

	"foodgram/internal/middleware"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const fileName = "shopping_list.txt"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.GET("/recipes/download_shopping_cart", h.Download)
}

// Download — GET /recipes/download_shopping_cart
func (h *Handler) Download(c *gin.Context) {
	userID, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	items, err := h.svc.Build(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, items); err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
