package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

// LoadResource fetches the entity identified by the path parameter param with
// fetch and binds it under key. A malformed or unknown id aborts with 404 and the given
// not-found error. Storage failures abort with 500.
func LoadResource[T any](param string, key fmt.Stringer, fetch func(ctx context.Context, id string) (*T, error),
	notFound *schemas.CustomError) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param(param)
		if _, err := uuid.Parse(id); err != nil {
			utils.WriteAndLogError(c, notFound, http.StatusNotFound, err)
			return
		}

		resource, err := fetch(c, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				utils.WriteAndLogError(c, notFound, http.StatusNotFound, err)
				return
			}
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			return
		}

		c.Set(key.String(), resource)
		c.Next()
	}
}

// ResourceFromContext returns the entity bound by LoadResource.
func ResourceFromContext[T any](c *gin.Context, key fmt.Stringer) (*T, bool) {
	value, ok := c.Get(key.String())
	if !ok {
		return nil, false
	}
	resource, ok := value.(*T)
	return resource, ok && resource != nil
}
