package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

var ErrPermissionDenied = errors.New("permission denied")

// CheckOwnership returns nil iff subjectId owns resource. An empty subject
// never owns anything.
func CheckOwnership[T any](resource *T, owner func(*T) string, subjectId string) error {
	if resource == nil || subjectId == "" || owner(resource) != subjectId {
		return ErrPermissionDenied
	}
	return nil
}

// RequireOwner aborts with 403 unless the authenticated subject owns the
// resource bound under key. It must run after Authorize and LoadResource.
func RequireOwner[T any](key fmt.Stringer, owner func(*T) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resource, ok := ResourceFromContext[T](c, key)
		if !ok {
			utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError,
				fmt.Errorf("no resource bound under %s", key))
			return
		}

		subjectId, _ := utils.SubjectFromContext(c)
		if err := CheckOwnership(resource, owner, subjectId); err != nil {
			utils.WriteAndLogError(c, schemas.PermissionDenied, http.StatusForbidden, err)
			return
		}

		c.Next()
	}
}

func EventOwner(event *schemas.Event) string {
	return event.CreatedBy
}

// UserOwner makes a user the owner of their own profile.
func UserOwner(user *schemas.User) string {
	return user.UserId
}

func ConversationOwner(conversation *schemas.Conversation) string {
	return conversation.CreatedBy
}
