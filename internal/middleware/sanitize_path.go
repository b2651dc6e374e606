package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizePath strips markup from the path parameters of the matched route.
// Routing is already done when middleware runs, so handlers only ever read
// the sanitized c.Params.
func SanitizePath() gin.HandlerFunc {
	p := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		for i := range c.Params {
			c.Params[i].Value = p.Sanitize(c.Params[i].Value)
		}
		c.Next()
	}
}
