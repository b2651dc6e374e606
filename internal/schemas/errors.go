package schemas

// CustomError is a client-facing error. Code is written to the response,
// Message only to the logs.
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *CustomError) Error() string {
	return e.Code
}

var (
	BadRequest = &CustomError{
		Code:    "the_information_arent_valid",
		Message: "The request body is invalid.",
	}
	InvalidQuery = &CustomError{
		Code:    "invalid_query",
		Message: "The discovery parameters are invalid.",
	}
	TokenNotFound = &CustomError{
		Code:    "token_not_found",
		Message: "No token was supplied.",
	}
	TokenExpired = &CustomError{
		Code:    "token_has_expired",
		Message: "The token has expired.",
	}
	InvalidToken = &CustomError{
		Code:    "invalid_token",
		Message: "The token is malformed or its signature does not match.",
	}
	PermissionDenied = &CustomError{
		Code:    "permission_denied",
		Message: "The authenticated user does not own the resource.",
	}
	UserNotFound = &CustomError{
		Code:    "user_not_found",
		Message: "The user was not found.",
	}
	EventNotFound = &CustomError{
		Code:    "event_not_found",
		Message: "The event was not found.",
	}
	ConversationNotFound = &CustomError{
		Code:    "conversation_not_found",
		Message: "The conversation was not found.",
	}
	UserAlreadyExist = &CustomError{
		Code:    "user_already_exist",
		Message: "A user with this email already exists.",
	}
	EmailNotFound = &CustomError{
		Code:    "email_not_found",
		Message: "No user with this email exists.",
	}
	WrongPassword = &CustomError{
		Code:    "wrong_password",
		Message: "The password does not match.",
	}
	EmailUnreachable = &CustomError{
		Code:    "email_unreachable",
		Message: "The email domain does not accept mail.",
	}
	LocationNotSet = &CustomError{
		Code:    "location_not_set",
		Message: "The user has no stored location.",
	}
	AlreadyJoined = &CustomError{
		Code:    "already_joined",
		Message: "The user already joined the event.",
	}
	NotJoined = &CustomError{
		Code:    "not_joined",
		Message: "The user did not join the event.",
	}
	AlreadyLiked = &CustomError{
		Code:    "already_liked",
		Message: "The user already liked the event.",
	}
	NotLiked = &CustomError{
		Code:    "not_liked",
		Message: "The user did not like the event.",
	}
	AlreadyReported = &CustomError{
		Code:    "already_reported",
		Message: "The user already reported the event.",
	}
	HashtagAlreadyAdd = &CustomError{
		Code:    "hashtag_already_add",
		Message: "The hashtag is already followed.",
	}
	HashtagNotFound = &CustomError{
		Code:    "hashtag_not_found",
		Message: "The hashtag is not followed.",
	}
	NotificationTokenAlreadyAdd = &CustomError{
		Code:    "notification_token_already_add",
		Message: "The notification token is already registered.",
	}
	TooManyRequests = &CustomError{
		Code:    "too_many_requests",
		Message: "The rate limit was exceeded.",
	}
	DatabaseError = &CustomError{
		Code:    "database_error",
		Message: "A database error occurred.",
	}
	InternalServerError = &CustomError{
		Code:    "internal_server_error",
		Message: "An unexpected error occurred.",
	}
)
