package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const invalidBodyMessage = "Invalid request body"

// BindJSON decodes the body into out. It only checks JSON shape; field rules
// live in the validation package.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(ctx, http.StatusRequestEntityTooLarge, "Request body too large", gin.H{"limit": tooLarge.Limit})
			return false
		}

		RespondBadRequest(ctx, invalidBodyMessage, parseBindError(err))

		return false
	}

	return true
}

func parseBindError(err error) interface{} {
	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) || errors.Is(err, io.ErrUnexpectedEOF) {
		return gin.H{
			"json": "invalid_json_syntax",
		}
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := strings.TrimSpace(unmatchedTypeError.Field)

		return gin.H{
			"json":    "invalid_json_type",
			"field":   field,
			"message": fmt.Sprintf("must be of type %s", unmatchedTypeError.Type.String()),
		}
	}

	// final fallback if the error could not be deciphered
	return gin.H{"reason": err.Error()}
}
