package schemas

// SuccessDTO is the envelope of every successful response.
type SuccessDTO struct {
	Ok      bool        `json:"ok"`
	Message interface{} `json:"message"`
}

// ErrorDTO is the envelope of every failed response.
// Error is the code of the CustomError, see errors.go
type ErrorDTO struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error"`
}

// AuthDTO is returned by signup and login.
type AuthDTO struct {
	UserId string `json:"user_id"`
	Token  string `json:"token"`
}

// DiscoveredEventDTO is an event of a discovery page together with its
// great-circle distance from the caller in kilometers.
type DiscoveredEventDTO struct {
	*Event
	DistanceKm float64 `json:"distance_km"`
}

// DiscoveryPageDTO is one page of a discovery query.
type DiscoveryPageDTO struct {
	Page   int                   `json:"page"`
	Events []*DiscoveredEventDTO `json:"events"`
}

// SubjectListDTO lists the participants or likers of an event.
type SubjectListDTO struct {
	EventId  string   `json:"event_id"`
	Subjects []string `json:"users"`
}

// PictureListDTO lists the pictures of an event.
type PictureListDTO struct {
	EventId  string   `json:"event_id"`
	Pictures []string `json:"pictures"`
}

// MessageListDTO lists the messages of a conversation.
type MessageListDTO struct {
	ConversationId string     `json:"conversation_id"`
	Messages       []*Message `json:"messages"`
}

// MetadataDTO describes the running server.
type MetadataDTO struct {
	ApiVersion  string `json:"apiVersion"`
	ApiName     string `json:"apiName"`
	PullRequest string `json:"pullRequest,omitempty"`
}
