package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"server-yool/internal/geo"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

type UserHdl interface {
	GetUser(c *gin.Context)
	ModifyUser(c *gin.Context)
	DeleteUser(c *gin.Context)
	UpdateLocation(c *gin.Context)
	AddHashtag(c *gin.Context)
	RemoveHashtag(c *gin.Context)
	AddNotificationToken(c *gin.Context)
}

// UserHandler serves the profile routes. The user is bound by the resource
// loader; mutating routes additionally pass the ownership guard.
type UserHandler struct {
	UserRepository repositories.UserRepo
}

func NewUserHandler(userRepository repositories.UserRepo) UserHdl {
	return &UserHandler{
		UserRepository: userRepository,
	}
}

// GetUser returns the public profile. Password, tokens and location are never serialized.
func (handler *UserHandler) GetUser(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	utils.WriteAndLogResponse(c, user, http.StatusOK)
}

func (handler *UserHandler) ModifyUser(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	modifyRequest, ok := payload[schemas.ModifyProfileRequest](c)
	if !ok {
		return
	}

	updated, err := handler.UserRepository.Update(c, user.UserId, modifyRequest.Username, modifyRequest.Birthdate)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, updated, http.StatusOK)
}

// DeleteUser removes the account after confirming the password.
func (handler *UserHandler) DeleteUser(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	deleteRequest, ok := payload[schemas.DeleteProfileRequest](c)
	if !ok {
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(deleteRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.WrongPassword, http.StatusBadRequest, err)
		return
	}

	if err := handler.UserRepository.Delete(c, user.UserId); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, "user_deleted", http.StatusOK)
}

// UpdateLocation stores the last known location used as discovery center.
func (handler *UserHandler) UpdateLocation(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	locationRequest, ok := payload[schemas.LocationRequest](c)
	if !ok {
		return
	}

	point, err := geo.FromLocation(*locationRequest.Loc)
	if err != nil {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, err)
		return
	}

	if err = handler.UserRepository.UpdateLocation(c, user.UserId, point); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.UserNotFound, http.StatusNotFound, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, point.Location(), http.StatusOK)
}

func (handler *UserHandler) AddHashtag(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	hashtagRequest, ok := payload[schemas.HashtagRequest](c)
	if !ok {
		return
	}
	hashtag := utils.NormalizeHashtag(hashtagRequest.Hashtag)

	if err := handler.UserRepository.AddHashtag(c, user.UserId, hashtag); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.HashtagAlreadyAdd, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, gin.H{"hashtags": append(user.Hashtags, hashtag)}, http.StatusOK)
}

func (handler *UserHandler) RemoveHashtag(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	hashtagRequest, ok := payload[schemas.HashtagRequest](c)
	if !ok {
		return
	}
	hashtag := utils.NormalizeHashtag(hashtagRequest.Hashtag)

	if err := handler.UserRepository.RemoveHashtag(c, user.UserId, hashtag); err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.HashtagNotFound, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	remaining := make([]string, 0, len(user.Hashtags))
	for _, followed := range user.Hashtags {
		if followed != hashtag {
			remaining = append(remaining, followed)
		}
	}
	utils.WriteAndLogResponse(c, gin.H{"hashtags": remaining}, http.StatusOK)
}

// AddNotificationToken registers a push token for the ios or android platform.
func (handler *UserHandler) AddNotificationToken(c *gin.Context) {
	user, ok := resource[schemas.User](c, utils.UserKey)
	if !ok {
		return
	}
	tokenRequest, ok := payload[schemas.NotificationTokenRequest](c)
	if !ok {
		return
	}

	err := handler.UserRepository.AddNotificationToken(c, user.UserId, tokenRequest.Platform, tokenRequest.Token)
	if err != nil {
		if errors.Is(err, repositories.ErrNoChange) {
			utils.WriteAndLogError(c, schemas.NotificationTokenAlreadyAdd, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, "notification_token_added", http.StatusCreated)
}
