package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondAppError maps a domain error to its HTTP status and machine code.
// Unknown errors are logged and reported as a generic internal failure so
// storage details never leak to the client.
func RespondAppError(c *gin.Context, err error) {
	var app *AppError
	if errors.As(err, &app) {
		c.JSON(app.Status, JSONResponse{
			Status:  false,
			Code:    app.Code,
			Message: app.Message,
		})
		return
	}

	ErrorLogger.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, JSONResponse{
		Status:  false,
		Code:    "INTERNAL_ERROR",
		Message: "internal server error",
	})
}
