package utils

const (
	// EventIdParamKey is the key for event ID used in routing parameters.
	EventIdParamKey = "event_id"

	// UserIdParamKey is the key for user ID used in routing parameters.
	UserIdParamKey = "user_id"

	// ConversationIdParamKey is the key for conversation ID used in routing parameters.
	ConversationIdParamKey = "conversation_id"

	// DistanceParamKey is the search radius in kilometers.
	DistanceParamKey = "distance"

	// PageParamKey is the zero-based page index of a discovery query.
	PageParamKey = "page"

	// HashtagParamKey filters a discovery query by hashtag.
	HashtagParamKey = "hashtag"

	// ParticipantParamKey filters a discovery query by participant.
	ParticipantParamKey = "user"
)
