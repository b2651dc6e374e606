package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"server-yool/internal/geo"
	"server-yool/internal/middleware"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

type EventHdl interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	ModifyEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)
	GetJoined(c *gin.Context)
	JoinEvent(c *gin.Context)
	LeaveEvent(c *gin.Context)
	GetLikes(c *gin.Context)
	LikeEvent(c *gin.Context)
	UnlikeEvent(c *gin.Context)
	GetPictures(c *gin.Context)
	AddPicture(c *gin.Context)
	ReportEvent(c *gin.Context)
	DiscoverEvents(c *gin.Context)
	DiscoverEventsByHashtag(c *gin.Context)
	DiscoverEventsByParticipant(c *gin.Context)
}

type EventHandler struct {
	EventRepository repositories.EventRepo
	UserRepository  repositories.UserRepo
	Engine          *geo.Engine
	now             func() time.Time
}

func NewEventHandler(eventRepository repositories.EventRepo, userRepository repositories.UserRepo) EventHdl {
	return &EventHandler{
		EventRepository: eventRepository,
		UserRepository:  userRepository,
		Engine:          geo.NewEngine(eventRepository),
		now:             time.Now,
	}
}

// CreateEvent stores a new event together with its conversation. The creator
// is the first participant of both.
func (handler *EventHandler) CreateEvent(c *gin.Context) {
	subjectId, ok := subject(c)
	if !ok {
		return
	}
	createRequest, ok := payload[schemas.CreateEventRequest](c)
	if !ok {
		return
	}

	point, err := geo.FromLocation(*createRequest.Loc)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	now := handler.now()
	conversation := &schemas.Conversation{
		ConversationId: uuid.NewString(),
		CreatedBy:      subjectId,
		IsPrivate:      createRequest.IsPrivate,
		Users:          []string{subjectId},
		CreatedAt:      now,
	}
	event := &schemas.Event{
		EventId:        uuid.NewString(),
		CreatedBy:      subjectId,
		Location:       point.Location(),
		Content:        schemas.EventContent{Message: createRequest.Content.Message},
		Hashtags:       utils.ExtractHashtags(createRequest.Content.Message),
		Pictures:       []string{},
		Joined:         []string{subjectId},
		Liked:          []string{},
		Reported:       []string{},
		ConversationId: conversation.ConversationId,
		IsPrivate:      createRequest.IsPrivate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err = handler.EventRepository.CreateWithConversation(c, event, conversation); err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, event, http.StatusCreated)
}

// GetEvent returns the event. Private events are only shown to their creator and participants.
func (handler *EventHandler) GetEvent(c *gin.Context) {
	event, ok := handler.visibleEvent(c)
	if !ok {
		return
	}
	utils.WriteAndLogResponse(c, event, http.StatusOK)
}

// ModifyEvent replaces the content and visibility. Hashtags are derived again
// from the new message, the creator never changes.
func (handler *EventHandler) ModifyEvent(c *gin.Context) {
	event, ok := resource[schemas.Event](c, utils.EventKey)
	if !ok {
		return
	}
	modifyRequest, ok := payload[schemas.ModifyEventRequest](c)
	if !ok {
		return
	}

	event.Content = schemas.EventContent{Message: modifyRequest.Content.Message}
	event.Hashtags = utils.ExtractHashtags(modifyRequest.Content.Message)
	event.IsPrivate = modifyRequest.IsPrivate

	if err := handler.EventRepository.Update(c, event); err != nil {
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, event, http.StatusOK)
}

func (handler *EventHandler) DeleteEvent(c *gin.Context) {
	event, ok := resource[schemas.Event](c, utils.EventKey)
	if !ok {
		return
	}

	if err := handler.EventRepository.Delete(c, event.EventId); err != nil {
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, "event_deleted", http.StatusOK)
}

func (handler *EventHandler) GetJoined(c *gin.Context) {
	event, ok := handler.visibleEvent(c)
	if !ok {
		return
	}
	utils.WriteAndLogResponse(c, &schemas.SubjectListDTO{EventId: event.EventId, Subjects: event.Joined}, http.StatusOK)
}

// JoinEvent adds the subject to the participants and the conversation.
// Private events cannot be joined by others.
func (handler *EventHandler) JoinEvent(c *gin.Context) {
	subjectId, ok := subject(c)
	if !ok {
		return
	}
	event, ok := resource[schemas.Event](c, utils.EventKey)
	if !ok {
		return
	}

	if event.IsPrivate && event.CreatedBy != subjectId {
		utils.WriteAndLogError(c, schemas.PermissionDenied, http.StatusForbidden, middleware.ErrPermissionDenied)
		return
	}

	if err := handler.EventRepository.Join(c, event, subjectId); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.AlreadyJoined, http.StatusBadRequest, err)
			return
		}
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.SubjectListDTO{EventId: event.EventId, Subjects: append(event.Joined, subjectId)},
		http.StatusCreated)
}

// LeaveEvent removes the subject from the participants. The creator cannot leave.
func (handler *EventHandler) LeaveEvent(c *gin.Context) {
	subjectId, ok := subject(c)
	if !ok {
		return
	}
	event, ok := resource[schemas.Event](c, utils.EventKey)
	if !ok {
		return
	}

	if event.CreatedBy == subjectId {
		utils.WriteAndLogError(c, schemas.PermissionDenied, http.StatusForbidden, errors.New("creator cannot leave"))
		return
	}

	if err := handler.EventRepository.Leave(c, event, subjectId); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.NotJoined, http.StatusBadRequest, err)
			return
		}
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.SubjectListDTO{EventId: event.EventId, Subjects: without(event.Joined, subjectId)},
		http.StatusOK)
}

func (handler *EventHandler) GetLikes(c *gin.Context) {
	event, ok := handler.visibleEvent(c)
	if !ok {
		return
	}
	utils.WriteAndLogResponse(c, &schemas.SubjectListDTO{EventId: event.EventId, Subjects: event.Liked}, http.StatusOK)
}

func (handler *EventHandler) LikeEvent(c *gin.Context) {
	event, subjectId, ok := handler.visibleEventAndSubject(c)
	if !ok {
		return
	}

	if err := handler.EventRepository.AddToSet(c, repositories.SetLiked, event.EventId, subjectId); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.AlreadyLiked, http.StatusBadRequest, err)
			return
		}
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.SubjectListDTO{EventId: event.EventId, Subjects: append(event.Liked, subjectId)},
		http.StatusCreated)
}

func (handler *EventHandler) UnlikeEvent(c *gin.Context) {
	event, subjectId, ok := handler.visibleEventAndSubject(c)
	if !ok {
		return
	}

	if err := handler.EventRepository.RemoveFromSet(c, repositories.SetLiked, event.EventId, subjectId); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.NotLiked, http.StatusBadRequest, err)
			return
		}
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.SubjectListDTO{EventId: event.EventId, Subjects: without(event.Liked, subjectId)},
		http.StatusOK)
}

func (handler *EventHandler) GetPictures(c *gin.Context) {
	event, ok := handler.visibleEvent(c)
	if !ok {
		return
	}
	utils.WriteAndLogResponse(c, &schemas.PictureListDTO{EventId: event.EventId, Pictures: event.Pictures}, http.StatusOK)
}

// AddPicture attaches an already uploaded picture. Only participants may add pictures.
func (handler *EventHandler) AddPicture(c *gin.Context) {
	subjectId, ok := subject(c)
	if !ok {
		return
	}
	event, ok := resource[schemas.Event](c, utils.EventKey)
	if !ok {
		return
	}
	pictureRequest, ok := payload[schemas.PictureRequest](c)
	if !ok {
		return
	}

	if event.CreatedBy != subjectId && !event.HasJoined(subjectId) {
		utils.WriteAndLogError(c, schemas.PermissionDenied, http.StatusForbidden, middleware.ErrPermissionDenied)
		return
	}

	if err := handler.EventRepository.AddPicture(c, event.EventId, pictureRequest.Url); err != nil {
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.PictureListDTO{EventId: event.EventId, Pictures: append(event.Pictures, pictureRequest.Url)},
		http.StatusCreated)
}

// ReportEvent flags the event once per subject.
func (handler *EventHandler) ReportEvent(c *gin.Context) {
	event, subjectId, ok := handler.visibleEventAndSubject(c)
	if !ok {
		return
	}

	if err := handler.EventRepository.AddToSet(c, repositories.SetReported, event.EventId, subjectId); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.AlreadyReported, http.StatusBadRequest, err)
			return
		}
		handler.writeRepositoryError(c, err)
		return
	}

	utils.WriteAndLogResponse(c, "event_reported", http.StatusCreated)
}

func (handler *EventHandler) visibleEvent(c *gin.Context) (*schemas.Event, bool) {
	event, _, ok := handler.visibleEventAndSubject(c)
	return event, ok
}

func (handler *EventHandler) visibleEventAndSubject(c *gin.Context) (*schemas.Event, string, bool) {
	subjectId, ok := subject(c)
	if !ok {
		return nil, "", false
	}
	event, ok := resource[schemas.Event](c, utils.EventKey)
	if !ok {
		return nil, "", false
	}

	if !event.VisibleTo(subjectId) {
		utils.WriteAndLogError(c, schemas.PermissionDenied, http.StatusForbidden, middleware.ErrPermissionDenied)
		return nil, "", false
	}
	return event, subjectId, true
}

func (handler *EventHandler) writeRepositoryError(c *gin.Context, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		utils.WriteAndLogError(c, schemas.EventNotFound, http.StatusNotFound, err)
		return
	}
	utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
}

func without(values []string, v string) []string {
	out := make([]string, 0, len(values))
	for _, candidate := range values {
		if candidate != v {
			out = append(out, candidate)
		}
	}
	return out
}
