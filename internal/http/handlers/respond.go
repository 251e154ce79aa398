package handlers

import (
	"net/http"

	"github.com/geocoder89/techhive/internal/validation"
	"github.com/gin-gonic/gin"
)

const validationFailedMessage = "One or more validation errors occurred."

type ErrorResponse struct {
	Error   string                 `json:"error"`
	Fields  []validation.Violation `json:"fields,omitempty"`
	Details interface{}            `json:"details,omitempty"`
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	ctx.JSON(status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondValidation(ctx *gin.Context, violations validation.Violations) {
	ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error:  validationFailedMessage,
		Fields: violations,
	})
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

// fail hands err to the error boundary, which logs it and writes the 500.
func fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}
