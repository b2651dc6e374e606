// Package schemas defines the data structures
package schemas

import "time"

// Location is a point on the globe, always in (latitude, longitude) order.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// NotificationToken holds the registered push tokens of a user per platform.
type NotificationToken struct {
	Ios     []string `json:"ios"`
	Android []string `json:"android"`
}

// User represents the data model for a user in the system.
// Password, notification tokens and last location never leave the server.
type User struct {
	UserId            string            `json:"user_id"`
	Email             string            `json:"email"`
	Username          string            `json:"username"`
	Password          string            `json:"-"`
	Birthdate         int64             `json:"birthdate"`
	Avatar            string            `json:"avatar"`
	Activated         bool              `json:"activated"`
	Hashtags          []string          `json:"hashtags"`
	LastLocation      *Location         `json:"-"`
	NotificationToken NotificationToken `json:"-"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// EventContent is the free-form payload of an event.
type EventContent struct {
	Message string `json:"message"`
}

// Event represents a geo-tagged event. CreatedBy is immutable after creation.
type Event struct {
	EventId        string       `json:"event_id"`
	CreatedBy      string       `json:"created_by"`
	Location       Location     `json:"loc"`
	Content        EventContent `json:"content"`
	Hashtags       []string     `json:"hashtags"`
	Pictures       []string     `json:"pictures"`
	Joined         []string     `json:"joined"`
	Liked          []string     `json:"liked"`
	Reported       []string     `json:"-"`
	ConversationId string       `json:"conversation_id"`
	IsPrivate      bool         `json:"is_private"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// HasJoined reports whether the subject is a participant of the event.
func (e *Event) HasJoined(subjectId string) bool {
	return containsString(e.Joined, subjectId)
}

// VisibleTo reports whether the subject may see the event: public events are
// visible to everyone, private ones to their creator and participants.
func (e *Event) VisibleTo(subjectId string) bool {
	return !e.IsPrivate || e.CreatedBy == subjectId || e.HasJoined(subjectId)
}

// Conversation is the chat paired with an event.
type Conversation struct {
	ConversationId string    `json:"conversation_id"`
	CreatedBy      string    `json:"created_by"`
	IsPrivate      bool      `json:"is_private"`
	Users          []string  `json:"users"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasMember reports whether the subject belongs to the conversation.
func (c *Conversation) HasMember(subjectId string) bool {
	return c.CreatedBy == subjectId || containsString(c.Users, subjectId)
}

// Message is a single chat message of a conversation.
type Message struct {
	MessageId      string    `json:"message_id"`
	ConversationId string    `json:"conversation_id"`
	AuthorId       string    `json:"author_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func containsString(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
