package response

import (
	"net/http"

	"foodgram/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse описывает тело ошибки для swagger и клиентов.
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code" example:"NOT_FOUND"`
	Message string `json:"message" example:"recipe not found"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, ErrorResponse{
		Error: ErrorBody{Code: code, Message: message, Details: details},
	})
}

// FromError writes err as an error envelope. Unknown errors are attached to
// the gin context for ErrorLogger and answered with a bare 500.
func FromError(c *gin.Context, err error) {
	e, ok := apperr.From(err)
	if !ok {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, string(apperr.CodeInternal), "Internal error")
		return
	}
	if e.Details != nil {
		ErrorWithDetails(c, e.HTTPStatus(), string(e.Code), e.Message, e.Details)
		return
	}
	Error(c, e.HTTPStatus(), string(e.Code), e.Message)
}
