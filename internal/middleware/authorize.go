package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"server-yool/internal/managers"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

// LastSeenRecorder refreshes the last activity of a subject.
type LastSeenRecorder interface {
	TouchLastSeen(ctx context.Context, userId string) error
}

// Authorize verifies the token of the Authorization header and binds the
// subject id under utils.SubjectKey. Every failure aborts the chain.
//
// Missing, expired and invalid tokens all answer 401 with distinct codes.
// With legacyStatus a missing token answers 404 instead.
func Authorize(jwtMgr managers.JWTMgr, taskMgr managers.TaskMgr, lastSeen LastSeenRecorder, legacyStatus bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))

		subjectId, err := jwtMgr.ValidateJWT(token)
		if err != nil {
			customErr, status := authFailure(err, legacyStatus)
			utils.WriteAndLogError(c, customErr, status, err)
			return
		}

		c.Set(utils.SubjectKey.String(), subjectId)

		if taskMgr != nil && lastSeen != nil {
			taskMgr.Submit(utils.DetachedContext(c), "touch_last_seen", func(ctx context.Context) error {
				return lastSeen.TouchLastSeen(ctx, subjectId)
			})
		}

		c.Next()
	}
}

// extractToken accepts both a raw token and the "Bearer <token>" form.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func authFailure(err error, legacyStatus bool) (*schemas.CustomError, int) {
	switch {
	case errors.Is(err, managers.ErrTokenMissing):
		if legacyStatus {
			return schemas.TokenNotFound, http.StatusNotFound
		}
		return schemas.TokenNotFound, http.StatusUnauthorized
	case errors.Is(err, managers.ErrTokenExpired):
		return schemas.TokenExpired, http.StatusUnauthorized
	default:
		return schemas.InvalidToken, http.StatusUnauthorized
	}
}
