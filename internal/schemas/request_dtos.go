// Package schemas defines the request structures for various operations in the application.
package schemas

// SignupRequest is a struct that represents a signup request
// Username must be less than 20 characters, Birthdate is a unix timestamp in seconds
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,max=20,username_validation" sanitize:"true"`
	Password  string `json:"password" validate:"required,min=8,password_validation"`
	Birthdate int64  `json:"birthdate" validate:"required"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ModifyProfileRequest is a struct that represents a profile change
type ModifyProfileRequest struct {
	Username  string `json:"username" validate:"required,max=20,username_validation" sanitize:"true"`
	Birthdate int64  `json:"birthdate" validate:"required"`
}

// DeleteProfileRequest confirms the deletion of an account with its password
type DeleteProfileRequest struct {
	Password string `json:"password" validate:"required"`
}

// LocationRequest carries a location update
type LocationRequest struct {
	Loc *Location `json:"loc" validate:"required"`
}

// HashtagRequest follows or unfollows a hashtag, with or without leading '#'
type HashtagRequest struct {
	Hashtag string `json:"hashtag" validate:"required,max=64,hashtag_validation" sanitize:"true"`
}

// NotificationTokenRequest registers a device token for one platform
type NotificationTokenRequest struct {
	Platform string `json:"platform" validate:"required,oneof=ios android"`
	Token    string `json:"token" validate:"required,max=512"`
}

// EventContentRequest is the content part of an event request.
// Message is stored verbatim; hashtags are derived from it.
type EventContentRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// CreateEventRequest is a struct that represents an event creation
type CreateEventRequest struct {
	Loc       *Location            `json:"loc" validate:"required"`
	Content   *EventContentRequest `json:"content" validate:"required"`
	IsPrivate bool                 `json:"is_private"`
}

// ModifyEventRequest changes the content and visibility of an event
type ModifyEventRequest struct {
	Content   *EventContentRequest `json:"content" validate:"required"`
	IsPrivate bool                 `json:"is_private"`
}

// PictureRequest adds an already uploaded picture to an event
type PictureRequest struct {
	Url string `json:"url" validate:"required,url,max=2048"`
}
