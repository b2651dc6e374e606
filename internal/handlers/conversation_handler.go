package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"server-yool/internal/middleware"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

type ConversationHdl interface {
	GetMessages(c *gin.Context)
}

type ConversationHandler struct {
	ConversationRepository repositories.ConversationRepo
}

func NewConversationHandler(conversationRepository repositories.ConversationRepo) ConversationHdl {
	return &ConversationHandler{
		ConversationRepository: conversationRepository,
	}
}

// GetMessages lists the messages of a conversation. Private conversations are
// restricted to their members.
func (handler *ConversationHandler) GetMessages(c *gin.Context) {
	subjectId, ok := subject(c)
	if !ok {
		return
	}
	conversation, ok := resource[schemas.Conversation](c, utils.ConversationKey)
	if !ok {
		return
	}

	if conversation.IsPrivate && !conversation.HasMember(subjectId) {
		utils.WriteAndLogError(c, schemas.PermissionDenied, http.StatusForbidden, middleware.ErrPermissionDenied)
		return
	}

	messages, err := handler.ConversationRepository.ListMessages(c, conversation.ConversationId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageListDTO{ConversationId: conversation.ConversationId, Messages: messages},
		http.StatusOK)
}
