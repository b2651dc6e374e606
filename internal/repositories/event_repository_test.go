package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server-yool/internal/geo"
	"server-yool/internal/schemas"
)

var eventColumnNames = []string{"event_id", "created_by", "lat", "lng", "message", "hashtags", "pictures", "joined",
	"liked", "reported", "conversation_id", "is_private", "created_at", "updated_at"}

func newEventRepo(t *testing.T) (pgxmock.PgxPoolIface, *EventRepository) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return mockPool, &EventRepository{pool: mockPool, now: func() time.Time { return fixed }}
}

func addEventRow(rows *pgxmock.Rows, id string, lat, lng float64, createdAt time.Time) *pgxmock.Rows {
	return rows.AddRow(id, "owner", lat, lng, "hello #go", []string{"go"}, []string{}, []string{}, []string{},
		[]string{}, "c-"+id, false, createdAt, createdAt)
}

func TestEventGetByID(t *testing.T) {
	mockPool, repo := newEventRepo(t)
	createdAt := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM yool_schema.events WHERE event_id = $1")).
		WithArgs("e1").
		WillReturnRows(addEventRow(pgxmock.NewRows(eventColumnNames), "e1", 48.78, 9.18, createdAt))

	event, err := repo.GetByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, schemas.Location{Latitude: 48.78, Longitude: 9.18}, event.Location)
	assert.Equal(t, "hello #go", event.Content.Message)
	assert.Equal(t, "c-e1", event.ConversationId)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestEventGetByIDNotFound(t *testing.T) {
	mockPool, repo := newEventRepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta("FROM yool_schema.events WHERE event_id = $1")).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(eventColumnNames))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueryByRadius(t *testing.T) {
	mockPool, repo := newEventRepo(t)
	newer := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(eventColumnNames)
	addEventRow(rows, "e2", 48.79, 9.19, newer)
	addEventRow(rows, "e1", 48.78, 9.18, older)

	// center (lat 48.78, lng 9.18) with 2.5 km: x, y, meters, limit, offset
	mockPool.ExpectQuery(regexp.QuoteMeta("WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3) AND NOT is_private ORDER BY created_at DESC, event_id DESC LIMIT $4 OFFSET $5")).
		WithArgs(9.18, 48.78, 2500.0, geo.PageSize, 0).
		WillReturnRows(rows)

	events, err := repo.QueryByRadius(context.Background(), geo.Query{Center: geo.Point{Lat: 48.78, Lng: 9.18}, RadiusKm: 2.5})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].EventId)
	assert.Equal(t, "e1", events[1].EventId)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestQueryByRadiusPushesFilterAndPage(t *testing.T) {
	testCases := []struct {
		name     string
		filter   *geo.Filter
		page     int
		fragment string
		args     []interface{}
	}{
		{"Hashtag", &geo.Filter{Field: geo.FilterHashtags, Value: "run"}, 2,
			"AND NOT is_private AND $4 = ANY(hashtags) ORDER BY created_at DESC, event_id DESC LIMIT $5 OFFSET $6",
			[]interface{}{0.0, 0.0, 1000.0, "run", geo.PageSize, 2 * geo.PageSize}},
		{"Participant", &geo.Filter{Field: geo.FilterJoined, Value: "u1"}, 0,
			"AND NOT is_private AND $4 = ANY(joined) ORDER BY created_at DESC, event_id DESC LIMIT $5 OFFSET $6",
			[]interface{}{0.0, 0.0, 1000.0, "u1", geo.PageSize, 0}},
		{"NoFilter", nil, 1,
			"AND NOT is_private ORDER BY created_at DESC, event_id DESC LIMIT $4 OFFSET $5",
			[]interface{}{0.0, 0.0, 1000.0, geo.PageSize, geo.PageSize}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockPool, repo := newEventRepo(t)

			mockPool.ExpectQuery(regexp.QuoteMeta(tc.fragment)).
				WithArgs(tc.args...).
				WillReturnRows(pgxmock.NewRows(eventColumnNames))

			events, err := repo.QueryByRadius(context.Background(), geo.Query{RadiusKm: 1, Page: tc.page, Filter: tc.filter})
			require.NoError(t, err)
			assert.NotNil(t, events)
			assert.Empty(t, events)
			assert.NoError(t, mockPool.ExpectationsWereMet())
		})
	}
}

func TestQueryByRadiusRejectsUnknownFilter(t *testing.T) {
	mockPool, repo := newEventRepo(t)

	_, err := repo.QueryByRadius(context.Background(), geo.Query{RadiusKm: 1, Filter: &geo.Filter{Field: "liked", Value: "x"}})
	assert.Error(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreateWithConversation(t *testing.T) {
	testCases := []struct {
		name      string
		eventErr  error
		expectErr bool
	}{
		{"Success", nil, false},
		{"EventInsertFailsRollsBack", errors.New("boom"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockPool, repo := newEventRepo(t)
			now := time.Now()
			conversation := &schemas.Conversation{ConversationId: "c1", CreatedBy: "owner", Users: []string{"owner"}, CreatedAt: now}
			event := &schemas.Event{EventId: "e1", CreatedBy: "owner", Location: schemas.Location{Latitude: 48.78, Longitude: 9.18},
				Content: schemas.EventContent{Message: "hi"}, Hashtags: []string{}, Pictures: []string{},
				Joined: []string{}, Liked: []string{}, Reported: []string{}, ConversationId: "c1",
				CreatedAt: now, UpdatedAt: now}

			mockPool.ExpectBegin()
			mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO yool_schema.conversations")).
				WithArgs("c1", "owner", false, []string{"owner"}, now).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			exec := mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO yool_schema.events")).
				WithArgs("e1", "owner", 9.18, 48.78, "hi", []string{}, []string{}, []string{}, []string{}, []string{},
					"c1", false, now, now)
			if tc.eventErr != nil {
				exec.WillReturnError(tc.eventErr)
				mockPool.ExpectRollback()
			} else {
				exec.WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mockPool.ExpectCommit()
			}

			err := repo.CreateWithConversation(context.Background(), event, conversation)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mockPool.ExpectationsWereMet())
		})
	}
}

func TestEventUpdateNeverTouchesCreator(t *testing.T) {
	mockPool, repo := newEventRepo(t)
	event := &schemas.Event{EventId: "e1", CreatedBy: "owner", Content: schemas.EventContent{Message: "new #tag"},
		Hashtags: []string{"tag"}, ConversationId: "c1", IsPrivate: true}

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE yool_schema.events SET message = $2, hashtags = $3, is_private = $4, updated_at = $5")).
		WithArgs("e1", "new #tag", []string{"tag"}, true, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE yool_schema.conversations SET is_private = $2 WHERE conversation_id = $1")).
		WithArgs("c1", true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), event))
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), event.UpdatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestEventUpdateFailures(t *testing.T) {
	testCases := []struct {
		name        string
		eventRows   int64
		convErr     error
		expectErr   error
		expectsConv bool
	}{
		{"EventMissing", 0, nil, ErrNotFound, false},
		{"ConversationFails", 1, errors.New("connection reset"), nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockPool, repo := newEventRepo(t)
			event := &schemas.Event{EventId: "e1", ConversationId: "c1", Hashtags: []string{}}

			mockPool.ExpectBegin()
			mockPool.ExpectExec(regexp.QuoteMeta("UPDATE yool_schema.events SET message = $2")).
				WithArgs("e1", "", []string{}, false, pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.eventRows))
			if tc.expectsConv {
				mockPool.ExpectExec(regexp.QuoteMeta("UPDATE yool_schema.conversations SET is_private = $2")).
					WithArgs("c1", false).
					WillReturnError(tc.convErr)
			}
			mockPool.ExpectRollback()

			err := repo.Update(context.Background(), event)
			require.Error(t, err)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
			} else {
				assert.ErrorIs(t, err, tc.convErr)
			}
			assert.NoError(t, mockPool.ExpectationsWereMet())
		})
	}
}

func TestEventDelete(t *testing.T) {
	mockPool, repo := newEventRepo(t)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("DELETE FROM yool_schema.events WHERE event_id = $1 RETURNING conversation_id")).
		WithArgs("e1").
		WillReturnRows(pgxmock.NewRows([]string{"conversation_id"}).AddRow("c1"))
	mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM yool_schema.conversations WHERE conversation_id = $1")).
		WithArgs("c1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestEventJoin(t *testing.T) {
	event := &schemas.Event{EventId: "e1", ConversationId: "c1"}

	t.Run("Success", func(t *testing.T) {
		mockPool, repo := newEventRepo(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta("SET joined = array_append(joined, $2)")).
			WithArgs("e1", "u2").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE yool_schema.conversations SET users = array_append(users, $2)")).
			WithArgs("c1", "u2").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		assert.NoError(t, repo.Join(context.Background(), event, "u2"))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("AlreadyJoined", func(t *testing.T) {
		mockPool, repo := newEventRepo(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta("SET joined = array_append(joined, $2)")).
			WithArgs("e1", "u2").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectRollback()

		assert.ErrorIs(t, repo.Join(context.Background(), event, "u2"), ErrNoChange)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestEventLeave(t *testing.T) {
	mockPool, repo := newEventRepo(t)
	event := &schemas.Event{EventId: "e1", ConversationId: "c1"}

	mockPool.ExpectBegin()
	mockPool.ExpectExec(regexp.QuoteMeta("SET joined = array_remove(joined, $2)")).
		WithArgs("e1", "u2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta("SET users = array_remove(users, $2)")).
		WithArgs("c1", "u2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	assert.NoError(t, repo.Leave(context.Background(), event, "u2"))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSubjectSets(t *testing.T) {
	testCases := []struct {
		name     string
		set      SubjectSet
		add      bool
		affected int64
		wantErr  error
	}{
		{"LikeNew", SetLiked, true, 1, nil},
		{"LikeTwice", SetLiked, true, 0, ErrNoChange},
		{"UnlikeMissing", SetLiked, false, 0, ErrNoChange},
		{"Report", SetReported, true, 1, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockPool, repo := newEventRepo(t)
			column := string(tc.set)

			fn := "array_remove"
			if tc.add {
				fn = "array_append"
			}
			mockPool.ExpectExec(regexp.QuoteMeta("SET "+column+" = "+fn+"("+column+", $2)")).
				WithArgs("e1", "u2").
				WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))

			var err error
			if tc.add {
				err = repo.AddToSet(context.Background(), tc.set, "e1", "u2")
			} else {
				err = repo.RemoveFromSet(context.Background(), tc.set, "e1", "u2")
			}

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mockPool.ExpectationsWereMet())
		})
	}
}

func TestSubjectSetRejectsUnknownColumn(t *testing.T) {
	_, repo := newEventRepo(t)

	err := repo.AddToSet(context.Background(), SubjectSet("created_by"), "e1", "u2")
	assert.Error(t, err)
}

func TestAddPicture(t *testing.T) {
	mockPool, repo := newEventRepo(t)

	mockPool.ExpectExec(regexp.QuoteMeta("SET pictures = array_append(pictures, $2)")).
		WithArgs("e1", "https://cdn.example/p.png", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.AddPicture(context.Background(), "e1", "https://cdn.example/p.png"))
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
