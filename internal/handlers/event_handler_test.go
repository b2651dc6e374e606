package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"server-yool/internal/geo"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) GetByID(ctx context.Context, eventId string) (*schemas.Event, error) {
	args := m.Called(ctx, eventId)
	event, _ := args.Get(0).(*schemas.Event)
	return event, args.Error(1)
}

func (m *mockEventRepo) CreateWithConversation(ctx context.Context, event *schemas.Event, conversation *schemas.Conversation) error {
	return m.Called(ctx, event, conversation).Error(0)
}

func (m *mockEventRepo) Update(ctx context.Context, event *schemas.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventRepo) Delete(ctx context.Context, eventId string) error {
	return m.Called(ctx, eventId).Error(0)
}

func (m *mockEventRepo) QueryByRadius(ctx context.Context, q geo.Query) ([]*schemas.Event, error) {
	args := m.Called(ctx, q)
	events, _ := args.Get(0).([]*schemas.Event)
	return events, args.Error(1)
}

func (m *mockEventRepo) Join(ctx context.Context, event *schemas.Event, subjectId string) error {
	return m.Called(ctx, event, subjectId).Error(0)
}

func (m *mockEventRepo) Leave(ctx context.Context, event *schemas.Event, subjectId string) error {
	return m.Called(ctx, event, subjectId).Error(0)
}

func (m *mockEventRepo) AddToSet(ctx context.Context, set repositories.SubjectSet, eventId, subjectId string) error {
	return m.Called(ctx, set, eventId, subjectId).Error(0)
}

func (m *mockEventRepo) RemoveFromSet(ctx context.Context, set repositories.SubjectSet, eventId, subjectId string) error {
	return m.Called(ctx, set, eventId, subjectId).Error(0)
}

func (m *mockEventRepo) AddPicture(ctx context.Context, eventId, url string) error {
	return m.Called(ctx, eventId, url).Error(0)
}

const (
	creatorId     = "11111111-1111-1111-1111-111111111111"
	participantId = "22222222-2222-2222-2222-222222222222"
	strangerId    = "33333333-3333-3333-3333-333333333333"
	testEventId   = "44444444-4444-4444-4444-444444444444"
)

func testEvent(isPrivate bool) *schemas.Event {
	return &schemas.Event{
		EventId:   testEventId,
		CreatedBy: creatorId,
		Joined:    []string{creatorId, participantId},
		Liked:     []string{},
		Pictures:  []string{},
		IsPrivate: isPrivate,
	}
}

// serve runs h on a context carrying the subject, the loaded event and an optional payload.
func serve(h gin.HandlerFunc, subjectId string, event *schemas.Event, body interface{}) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/event/"+testEventId, nil)

	c.Set(utils.SubjectKey.String(), subjectId)
	c.Set(utils.EventKey.String(), event)
	if body != nil {
		c.Set(utils.SanitizedPayloadKey.String(), body)
	}

	h(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func newTestEventHandler(repo *mockEventRepo) *EventHandler {
	return &EventHandler{
		EventRepository: repo,
		Engine:          geo.NewEngine(repo),
		now:             func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestJoinEvent(t *testing.T) {
	testCases := []struct {
		name       string
		isPrivate  bool
		subjectId  string
		repoErr    error
		callsRepo  bool
		status     int
		expectCode string
	}{
		{"PublicEvent", false, strangerId, nil, true, http.StatusCreated, ""},
		{"PrivateEventByStranger", true, strangerId, nil, false, http.StatusForbidden, "permission_denied"},
		{"PrivateEventByCreator", true, creatorId, repositories.ErrNoChange, true, http.StatusBadRequest, "already_joined"},
		{"AlreadyJoined", false, participantId, repositories.ErrNoChange, true, http.StatusBadRequest, "already_joined"},
		{"EventVanished", false, strangerId, repositories.ErrNotFound, true, http.StatusNotFound, "event_not_found"},
		{"DatabaseFailure", false, strangerId, errors.New("connection reset"), true, http.StatusInternalServerError, "database_error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockEventRepo{}
			event := testEvent(tc.isPrivate)
			if tc.callsRepo {
				repo.On("Join", mock.Anything, event, tc.subjectId).Return(tc.repoErr)
			}

			w := serve(newTestEventHandler(repo).JoinEvent, tc.subjectId, event, nil)

			assert.Equal(t, tc.status, w.Code)
			response := decode(t, w)
			if tc.expectCode != "" {
				assert.Equal(t, tc.expectCode, response["error"])
			} else {
				message := response["message"].(map[string]interface{})
				assert.Contains(t, message["users"], tc.subjectId)
			}
			if !tc.callsRepo {
				repo.AssertNotCalled(t, "Join", mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLeaveEvent(t *testing.T) {
	testCases := []struct {
		name       string
		subjectId  string
		repoErr    error
		callsRepo  bool
		status     int
		expectCode string
	}{
		{"Participant", participantId, nil, true, http.StatusOK, ""},
		{"Creator", creatorId, nil, false, http.StatusForbidden, "permission_denied"},
		{"NotJoined", strangerId, repositories.ErrNoChange, true, http.StatusBadRequest, "not_joined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockEventRepo{}
			event := testEvent(false)
			if tc.callsRepo {
				repo.On("Leave", mock.Anything, event, tc.subjectId).Return(tc.repoErr)
			}

			w := serve(newTestEventHandler(repo).LeaveEvent, tc.subjectId, event, nil)

			assert.Equal(t, tc.status, w.Code)
			response := decode(t, w)
			if tc.expectCode != "" {
				assert.Equal(t, tc.expectCode, response["error"])
			} else {
				message := response["message"].(map[string]interface{})
				assert.NotContains(t, message["users"], tc.subjectId)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLikeAndUnlikeEvent(t *testing.T) {
	t.Run("LikeTwice", func(t *testing.T) {
		repo := &mockEventRepo{}
		repo.On("AddToSet", mock.Anything, repositories.SetLiked, testEventId, strangerId).Return(nil).Once()
		repo.On("AddToSet", mock.Anything, repositories.SetLiked, testEventId, strangerId).Return(repositories.ErrNoChange).Once()
		handler := newTestEventHandler(repo)

		w := serve(handler.LikeEvent, strangerId, testEvent(false), nil)
		assert.Equal(t, http.StatusCreated, w.Code)

		w = serve(handler.LikeEvent, strangerId, testEvent(false), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "already_liked", decode(t, w)["error"])
		repo.AssertExpectations(t)
	})

	t.Run("UnlikeWithoutLike", func(t *testing.T) {
		repo := &mockEventRepo{}
		repo.On("RemoveFromSet", mock.Anything, repositories.SetLiked, testEventId, strangerId).Return(repositories.ErrNoChange)

		w := serve(newTestEventHandler(repo).UnlikeEvent, strangerId, testEvent(false), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "not_liked", decode(t, w)["error"])
	})

	t.Run("PrivateEventHiddenFromStranger", func(t *testing.T) {
		repo := &mockEventRepo{}

		w := serve(newTestEventHandler(repo).LikeEvent, strangerId, testEvent(true), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "permission_denied", decode(t, w)["error"])
		repo.AssertNotCalled(t, "AddToSet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PrivateEventVisibleToParticipant", func(t *testing.T) {
		repo := &mockEventRepo{}
		repo.On("AddToSet", mock.Anything, repositories.SetLiked, testEventId, participantId).Return(nil)

		w := serve(newTestEventHandler(repo).LikeEvent, participantId, testEvent(true), nil)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestAddPicture(t *testing.T) {
	request := &schemas.PictureRequest{Url: "https://cdn.example.com/p/1.jpg"}

	t.Run("Participant", func(t *testing.T) {
		repo := &mockEventRepo{}
		repo.On("AddPicture", mock.Anything, testEventId, request.Url).Return(nil)

		w := serve(newTestEventHandler(repo).AddPicture, participantId, testEvent(false), request)
		assert.Equal(t, http.StatusCreated, w.Code)
		message := decode(t, w)["message"].(map[string]interface{})
		assert.Equal(t, []interface{}{request.Url}, message["pictures"])
	})

	t.Run("Stranger", func(t *testing.T) {
		repo := &mockEventRepo{}

		w := serve(newTestEventHandler(repo).AddPicture, strangerId, testEvent(false), request)
		assert.Equal(t, http.StatusForbidden, w.Code)
		repo.AssertNotCalled(t, "AddPicture", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestReportEvent(t *testing.T) {
	repo := &mockEventRepo{}
	repo.On("AddToSet", mock.Anything, repositories.SetReported, testEventId, strangerId).Return(nil).Once()
	repo.On("AddToSet", mock.Anything, repositories.SetReported, testEventId, strangerId).Return(repositories.ErrNoChange).Once()
	handler := newTestEventHandler(repo)

	w := serve(handler.ReportEvent, strangerId, testEvent(false), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "event_reported", decode(t, w)["message"])

	w = serve(handler.ReportEvent, strangerId, testEvent(false), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already_reported", decode(t, w)["error"])
}

func TestMissingResource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/event/"+testEventId, nil)
	c.Set(utils.SubjectKey.String(), strangerId)

	newTestEventHandler(&mockEventRepo{}).GetEvent(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_server_error", decode(t, w)["error"])
}
