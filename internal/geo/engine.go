package geo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"server-yool/internal/schemas"
)

// PageSize is the fixed number of events per discovery page.
const PageSize = 20

// MaxPage bounds the page index so the storage offset cannot overflow.
// Pages beyond it are empty.
const MaxPage = math.MaxInt32

var ErrInvalidQuery = errors.New("invalid discovery query")

// FilterField names a set valued event attribute usable as containment filter.
type FilterField string

const (
	FilterHashtags FilterField = "hashtags"
	FilterJoined   FilterField = "joined"
)

// Filter restricts results to events whose Field contains Value.
type Filter struct {
	Field FilterField
	Value string
}

// Query describes one discovery page.
type Query struct {
	Center   Point
	RadiusKm float64
	Page     int
	Filter   *Filter
}

// ValidateRadiusAndPage checks the caller supplied part of a query.
func ValidateRadiusAndPage(radiusKm float64, page int) error {
	if !isFinite(radiusKm) || radiusKm <= 0 || radiusKm > MaxRadiusKm {
		return fmt.Errorf("%w: radius %v km", ErrInvalidQuery, radiusKm)
	}
	if page < 0 {
		return fmt.Errorf("%w: page %d", ErrInvalidQuery, page)
	}
	return nil
}

// Validate rejects malformed queries before any storage access.
func (q Query) Validate() error {
	if !q.Center.Valid() {
		return fmt.Errorf("%w: center %v out of range", ErrInvalidQuery, q.Center)
	}
	if err := ValidateRadiusAndPage(q.RadiusKm, q.Page); err != nil {
		return err
	}
	if q.Filter != nil {
		switch q.Filter.Field {
		case FilterHashtags, FilterJoined:
		default:
			return fmt.Errorf("%w: unknown filter field %q", ErrInvalidQuery, q.Filter.Field)
		}
		if q.Filter.Value == "" {
			return fmt.Errorf("%w: empty filter value", ErrInvalidQuery)
		}
	}
	return nil
}

// EventSource answers discovery queries through a spatial index. It returns
// page q.Page of the public events within the circle that match q.Filter,
// ordered as SortByRecency orders them.
type EventSource interface {
	QueryByRadius(ctx context.Context, q Query) ([]*schemas.Event, error)
}

// Engine runs discovery queries against an EventSource.
type Engine struct {
	source EventSource
}

func NewEngine(source EventSource) *Engine {
	return &Engine{source: source}
}

// Discover returns the requested page of public events within the circle,
// optionally restricted by q.Filter, most recent first. An empty page is not an error.
func (e *Engine) Discover(ctx context.Context, q Query) ([]*schemas.Event, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.Page > MaxPage {
		return []*schemas.Event{}, nil
	}

	events, err := e.source.QueryByRadius(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query by radius: %w", err)
	}

	// The source already filtered and paged; re-apply the filters so a
	// private or non matching row never leaves the engine.
	events = FilterPublic(events)
	if q.Filter != nil {
		events = FilterContains(events, q.Filter.Field, q.Filter.Value)
	}
	SortByRecency(events)
	if len(events) > PageSize {
		events = events[:PageSize]
	}

	return events, nil
}

// FilterPublic drops every private event.
func FilterPublic(events []*schemas.Event) []*schemas.Event {
	public := make([]*schemas.Event, 0, len(events))
	for _, event := range events {
		if !event.IsPrivate {
			public = append(public, event)
		}
	}
	return public
}

// FilterContains keeps the events whose field contains value.
// Unknown fields match nothing.
func FilterContains(events []*schemas.Event, field FilterField, value string) []*schemas.Event {
	matching := make([]*schemas.Event, 0, len(events))
	for _, event := range events {
		var set []string
		switch field {
		case FilterHashtags:
			set = event.Hashtags
		case FilterJoined:
			set = event.Joined
		}
		for _, candidate := range set {
			if candidate == value {
				matching = append(matching, event)
				break
			}
		}
	}
	return matching
}

// SortByRecency orders events by creation time descending, ties by id descending.
func SortByRecency(events []*schemas.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EventId > b.EventId
	})
}

// Paginate returns the window [page*PageSize, (page+1)*PageSize) of events.
func Paginate(events []*schemas.Event, page int) []*schemas.Event {
	if page < 0 || page > len(events)/PageSize {
		return []*schemas.Event{}
	}
	start := page * PageSize
	if start >= len(events) {
		return []*schemas.Event{}
	}
	end := start + PageSize
	if end > len(events) {
		end = len(events)
	}
	return events[start:end]
}
