package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"server-yool/internal/geo"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

// DiscoverEvents returns one page of public events around the caller's last location.
func (handler *EventHandler) DiscoverEvents(c *gin.Context) {
	handler.discover(c, nil)
}

func (handler *EventHandler) DiscoverEventsByHashtag(c *gin.Context) {
	handler.discover(c, &geo.Filter{
		Field: geo.FilterHashtags,
		Value: utils.NormalizeHashtag(c.Param(utils.HashtagParamKey)),
	})
}

func (handler *EventHandler) DiscoverEventsByParticipant(c *gin.Context) {
	handler.discover(c, &geo.Filter{
		Field: geo.FilterJoined,
		Value: c.Param(utils.ParticipantParamKey),
	})
}

func (handler *EventHandler) discover(c *gin.Context, filter *geo.Filter) {
	subjectId, ok := subject(c)
	if !ok {
		return
	}

	radiusKm, page, err := utils.ParseDiscoveryParams(c)
	if err == nil {
		err = geo.ValidateRadiusAndPage(radiusKm, page)
	}
	if err != nil {
		utils.WriteAndLogError(c, schemas.InvalidQuery, http.StatusBadRequest, err)
		return
	}

	// The discovery center is the caller's last stored location
	user, err := handler.UserRepository.GetByID(c, subjectId)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}
	if user.LastLocation == nil {
		utils.WriteAndLogError(c, schemas.LocationNotSet, http.StatusBadRequest, errors.New("no stored location"))
		return
	}

	center, err := geo.FromLocation(*user.LastLocation)
	if err != nil {
		utils.WriteAndLogError(c, schemas.LocationNotSet, http.StatusBadRequest, err)
		return
	}

	events, err := handler.Engine.Discover(c, geo.Query{
		Center:   center,
		RadiusKm: radiusKm,
		Page:     page,
		Filter:   filter,
	})
	if err != nil {
		if errors.Is(err, geo.ErrInvalidQuery) {
			utils.WriteAndLogError(c, schemas.InvalidQuery, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	discovered := make([]*schemas.DiscoveredEventDTO, 0, len(events))
	for _, event := range events {
		discovered = append(discovered, &schemas.DiscoveredEventDTO{
			Event:      event,
			DistanceKm: geo.DistanceKm(center, geo.Point{Lat: event.Location.Latitude, Lng: event.Location.Longitude}),
		})
	}

	utils.WriteAndLogResponse(c, &schemas.DiscoveryPageDTO{Page: page, Events: discovered}, http.StatusOK)
}
