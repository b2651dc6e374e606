package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"server-yool/internal/middleware"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

var errMissingContext = errors.New("request context is incomplete")

// subject returns the authenticated subject or aborts with 401.
func subject(c *gin.Context) (string, bool) {
	subjectId, ok := utils.SubjectFromContext(c)
	if !ok {
		utils.WriteAndLogError(c, schemas.TokenNotFound, http.StatusUnauthorized, errMissingContext)
	}
	return subjectId, ok
}

// payload returns the validated request body or aborts with 400.
func payload[T any](c *gin.Context) (*T, bool) {
	body, ok := utils.Payload[T](c)
	if !ok {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, errMissingContext)
	}
	return body, ok
}

// resource returns the entity bound by the resource loader or aborts with 500.
func resource[T any](c *gin.Context, key fmt.Stringer) (*T, bool) {
	value, ok := middleware.ResourceFromContext[T](c, key)
	if !ok {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, errMissingContext)
	}
	return value, ok
}
