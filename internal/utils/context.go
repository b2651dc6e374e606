package utils

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a type used for context keys to avoid conflicts with other packages' context keys.
type contextKey struct {
	name string
}

// Returns string representation of the context key.
func (c *contextKey) String() string {
	return c.name
}

// SubjectKey holds the verified subject id of the request.
var SubjectKey = &contextKey{"subject"}
var TraceIdKey = &contextKey{"traceId"}
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}

// Request-scoped resources bound by the resource loader.
var EventKey = &contextKey{"event"}
var UserKey = &contextKey{"user"}
var ConversationKey = &contextKey{"conversation"}

// SubjectFromContext returns the authenticated subject id bound by the authorization gate.
func SubjectFromContext(c *gin.Context) (string, bool) {
	subjectId := c.GetString(SubjectKey.String())
	return subjectId, subjectId != ""
}

// Payload returns the validated request body bound by the validation middleware.
func Payload[T any](c *gin.Context) (*T, bool) {
	value, ok := c.Get(SanitizedPayloadKey.String())
	if !ok {
		return nil, false
	}
	payload, ok := value.(*T)
	return payload, ok
}

// TraceIdFromContext returns the trace id of the request, or "" if none was injected.
func TraceIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceId, ok := ctx.Value(TraceIdKey).(string); ok {
		return traceId
	}
	if traceId, ok := ctx.Value(TraceIdKey.String()).(string); ok {
		return traceId
	}
	return ""
}

// DetachedContext returns a background context carrying only the trace id of c.
// It outlives the request and is meant for detached tasks.
func DetachedContext(c context.Context) context.Context {
	return context.WithValue(context.Background(), TraceIdKey, TraceIdFromContext(c))
}
