package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"server-yool/internal/geo"
	"server-yool/internal/interfaces"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

const eventColumns = `event_id, created_by, ST_Y(location::geometry), ST_X(location::geometry), message, hashtags,
	pictures, joined, liked, reported, conversation_id, is_private, created_at, updated_at`

// SubjectSet names one of the per-event subject id sets.
type SubjectSet string

const (
	SetJoined   SubjectSet = "joined"
	SetLiked    SubjectSet = "liked"
	SetReported SubjectSet = "reported"
)

func (s SubjectSet) column() (string, error) {
	switch s {
	case SetJoined, SetLiked, SetReported:
		return string(s), nil
	}
	return "", fmt.Errorf("unknown subject set %q", string(s))
}

// EventRepo stores events together with their conversations.
type EventRepo interface {
	GetByID(ctx context.Context, eventId string) (*schemas.Event, error)
	CreateWithConversation(ctx context.Context, event *schemas.Event, conversation *schemas.Conversation) error
	Update(ctx context.Context, event *schemas.Event) error
	Delete(ctx context.Context, eventId string) error
	QueryByRadius(ctx context.Context, q geo.Query) ([]*schemas.Event, error)
	Join(ctx context.Context, event *schemas.Event, subjectId string) error
	Leave(ctx context.Context, event *schemas.Event, subjectId string) error
	AddToSet(ctx context.Context, set SubjectSet, eventId, subjectId string) error
	RemoveFromSet(ctx context.Context, set SubjectSet, eventId, subjectId string) error
	AddPicture(ctx context.Context, eventId, url string) error
}

type EventRepository struct {
	pool interfaces.PgxPoolIface
	now  func() time.Time
}

func NewEventRepository(pool interfaces.PgxPoolIface) EventRepo {
	return &EventRepository{pool: pool, now: time.Now}
}

func (repo *EventRepository) GetByID(ctx context.Context, eventId string) (*schemas.Event, error) {
	queryString := "SELECT " + eventColumns + " FROM yool_schema.events WHERE event_id = $1"
	return scanEvent(repo.pool.QueryRow(ctx, queryString, eventId))
}

// CreateWithConversation inserts the conversation and then the event referencing it.
// Either both rows are written or neither is.
func (repo *EventRepository) CreateWithConversation(ctx context.Context, event *schemas.Event, conversation *schemas.Conversation) error {
	return utils.RunInTransaction(ctx, repo.pool, func(tx pgx.Tx) error {
		if err := insertConversation(ctx, tx, conversation); err != nil {
			return err
		}

		x, y := geo.Point{Lat: event.Location.Latitude, Lng: event.Location.Longitude}.XY()
		queryString := `INSERT INTO yool_schema.events (event_id, created_by, location, message, hashtags, pictures, joined,
			liked, reported, conversation_id, is_private, created_at, updated_at)
			VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		_, err := tx.Exec(ctx, queryString, event.EventId, event.CreatedBy, x, y, event.Content.Message, event.Hashtags,
			event.Pictures, event.Joined, event.Liked, event.Reported, event.ConversationId, event.IsPrivate,
			event.CreatedAt, event.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert event: %w", translateError(err))
		}
		return nil
	})
}

// Update writes the mutable fields of the event and carries its visibility
// over to the paired conversation. The creator is never touched.
func (repo *EventRepository) Update(ctx context.Context, event *schemas.Event) error {
	event.UpdatedAt = repo.now()
	return utils.RunInTransaction(ctx, repo.pool, func(tx pgx.Tx) error {
		queryString := `UPDATE yool_schema.events SET message = $2, hashtags = $3, is_private = $4, updated_at = $5
			WHERE event_id = $1`
		tag, err := tx.Exec(ctx, queryString, event.EventId, event.Content.Message, event.Hashtags, event.IsPrivate,
			event.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if err = requireAffected(tag, ErrNotFound); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, "UPDATE yool_schema.conversations SET is_private = $2 WHERE conversation_id = $1",
			event.ConversationId, event.IsPrivate)
		if err != nil {
			return fmt.Errorf("update conversation: %w", err)
		}
		return nil
	})
}

// Delete removes the event and its conversation.
func (repo *EventRepository) Delete(ctx context.Context, eventId string) error {
	return utils.RunInTransaction(ctx, repo.pool, func(tx pgx.Tx) error {
		var conversationId string
		err := tx.QueryRow(ctx, "DELETE FROM yool_schema.events WHERE event_id = $1 RETURNING conversation_id", eventId).
			Scan(&conversationId)
		if err != nil {
			return translateError(err)
		}

		if _, err = tx.Exec(ctx, "DELETE FROM yool_schema.conversations WHERE conversation_id = $1", conversationId); err != nil {
			return fmt.Errorf("delete conversation: %w", err)
		}
		return nil
	})
}

// QueryByRadius returns page q.Page of the public events within the circle
// that match q.Filter, newest first.
func (repo *EventRepository) QueryByRadius(ctx context.Context, q geo.Query) ([]*schemas.Event, error) {
	x, y := q.Center.XY()
	args := []interface{}{x, y, q.RadiusKm * 1000}
	queryString := "SELECT " + eventColumns + ` FROM yool_schema.events
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3) AND NOT is_private`

	if q.Filter != nil {
		column, err := filterColumn(q.Filter.Field)
		if err != nil {
			return nil, err
		}
		args = append(args, q.Filter.Value)
		queryString += fmt.Sprintf(" AND $%d = ANY(%s)", len(args), column)
	}

	args = append(args, geo.PageSize, q.Page*geo.PageSize)
	queryString += fmt.Sprintf(" ORDER BY created_at DESC, event_id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := repo.pool.Query(ctx, queryString, args...)
	if err != nil {
		return nil, fmt.Errorf("query by radius: %w", err)
	}
	defer rows.Close()

	events := make([]*schemas.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("query by radius: %w", err)
	}
	return events, nil
}

// Join adds the subject to the event participants and to its conversation.
// ErrNoChange if the subject already joined.
func (repo *EventRepository) Join(ctx context.Context, event *schemas.Event, subjectId string) error {
	return utils.RunInTransaction(ctx, repo.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE yool_schema.events SET joined = array_append(joined, $2)
			WHERE event_id = $1 AND NOT ($2 = ANY(joined))`, event.EventId, subjectId)
		if err != nil {
			return fmt.Errorf("join event: %w", err)
		}
		if err = requireAffected(tag, ErrNoChange); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE yool_schema.conversations SET users = array_append(users, $2)
			WHERE conversation_id = $1 AND NOT ($2 = ANY(users))`, event.ConversationId, subjectId)
		if err != nil {
			return fmt.Errorf("join conversation: %w", err)
		}
		return nil
	})
}

// Leave removes the subject from the event participants and its conversation.
// ErrNoChange if the subject never joined.
func (repo *EventRepository) Leave(ctx context.Context, event *schemas.Event, subjectId string) error {
	return utils.RunInTransaction(ctx, repo.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE yool_schema.events SET joined = array_remove(joined, $2)
			WHERE event_id = $1 AND $2 = ANY(joined)`, event.EventId, subjectId)
		if err != nil {
			return fmt.Errorf("leave event: %w", err)
		}
		if err = requireAffected(tag, ErrNoChange); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE yool_schema.conversations SET users = array_remove(users, $2)
			WHERE conversation_id = $1`, event.ConversationId, subjectId)
		if err != nil {
			return fmt.Errorf("leave conversation: %w", err)
		}
		return nil
	})
}

// AddToSet appends subjectId to the given set. ErrNoChange if already present.
func (repo *EventRepository) AddToSet(ctx context.Context, set SubjectSet, eventId, subjectId string) error {
	column, err := set.column()
	if err != nil {
		return err
	}

	queryString := "UPDATE yool_schema.events SET " + column + " = array_append(" + column + ", $2) " +
		"WHERE event_id = $1 AND NOT ($2 = ANY(" + column + "))"
	tag, err := repo.pool.Exec(ctx, queryString, eventId, subjectId)
	if err != nil {
		return fmt.Errorf("add to %s: %w", column, err)
	}
	return requireAffected(tag, ErrNoChange)
}

// RemoveFromSet removes subjectId from the given set. ErrNoChange if absent.
func (repo *EventRepository) RemoveFromSet(ctx context.Context, set SubjectSet, eventId, subjectId string) error {
	column, err := set.column()
	if err != nil {
		return err
	}

	queryString := "UPDATE yool_schema.events SET " + column + " = array_remove(" + column + ", $2) " +
		"WHERE event_id = $1 AND $2 = ANY(" + column + ")"
	tag, err := repo.pool.Exec(ctx, queryString, eventId, subjectId)
	if err != nil {
		return fmt.Errorf("remove from %s: %w", column, err)
	}
	return requireAffected(tag, ErrNoChange)
}

func (repo *EventRepository) AddPicture(ctx context.Context, eventId, url string) error {
	queryString := `UPDATE yool_schema.events SET pictures = array_append(pictures, $2), updated_at = $3
		WHERE event_id = $1`
	tag, err := repo.pool.Exec(ctx, queryString, eventId, url, repo.now())
	if err != nil {
		return fmt.Errorf("add picture: %w", err)
	}
	return requireAffected(tag, ErrNotFound)
}

func scanEvent(row pgx.Row) (*schemas.Event, error) {
	event := &schemas.Event{}
	var latitude, longitude float64

	err := row.Scan(&event.EventId, &event.CreatedBy, &latitude, &longitude, &event.Content.Message, &event.Hashtags,
		&event.Pictures, &event.Joined, &event.Liked, &event.Reported, &event.ConversationId, &event.IsPrivate,
		&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	event.Location = geo.FromXY(longitude, latitude).Location()
	return event, nil
}

func filterColumn(field geo.FilterField) (string, error) {
	switch field {
	case geo.FilterHashtags:
		return "hashtags", nil
	case geo.FilterJoined:
		return "joined", nil
	}
	return "", fmt.Errorf("unknown filter field %q", field)
}
