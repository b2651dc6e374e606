package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server-yool/internal/interfaces"
	"server-yool/internal/schemas"
)

// ConversationRepo reads event conversations and their messages.
type ConversationRepo interface {
	GetByID(ctx context.Context, conversationId string) (*schemas.Conversation, error)
	ListMessages(ctx context.Context, conversationId string) ([]*schemas.Message, error)
}

type ConversationRepository struct {
	pool interfaces.PgxPoolIface
}

func NewConversationRepository(pool interfaces.PgxPoolIface) ConversationRepo {
	return &ConversationRepository{pool: pool}
}

func (repo *ConversationRepository) GetByID(ctx context.Context, conversationId string) (*schemas.Conversation, error) {
	queryString := `SELECT conversation_id, created_by, is_private, users, created_at
		FROM yool_schema.conversations WHERE conversation_id = $1`

	conversation := &schemas.Conversation{}
	err := repo.pool.QueryRow(ctx, queryString, conversationId).Scan(&conversation.ConversationId,
		&conversation.CreatedBy, &conversation.IsPrivate, &conversation.Users, &conversation.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return conversation, nil
}

// ListMessages returns the messages of a conversation, oldest first.
func (repo *ConversationRepository) ListMessages(ctx context.Context, conversationId string) ([]*schemas.Message, error) {
	queryString := `SELECT message_id, conversation_id, author_id, content, created_at
		FROM yool_schema.messages WHERE conversation_id = $1 ORDER BY created_at ASC`

	rows, err := repo.pool.Query(ctx, queryString, conversationId)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*schemas.Message, 0)
	for rows.Next() {
		message := &schemas.Message{}
		if err = rows.Scan(&message.MessageId, &message.ConversationId, &message.AuthorId, &message.Content,
			&message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func insertConversation(ctx context.Context, tx pgx.Tx, conversation *schemas.Conversation) error {
	queryString := `INSERT INTO yool_schema.conversations (conversation_id, created_by, is_private, users, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.Exec(ctx, queryString, conversation.ConversationId, conversation.CreatedBy, conversation.IsPrivate,
		conversation.Users, conversation.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert conversation: %w", translateError(err))
	}
	return nil
}
