package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"server-yool/internal/managers"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

type AuthHdl interface {
	Signup(c *gin.Context)
	Login(c *gin.Context)
}

type AuthHandler struct {
	UserRepository    repositories.UserRepo
	JWTManager        managers.JWTMgr
	MailManager       managers.MailMgr
	TaskManager       managers.TaskMgr
	Validator         *utils.Validator
	VerifyEmailDomain bool
	now               func() time.Time
}

func NewAuthHandler(userRepository repositories.UserRepo, jwtManager managers.JWTMgr, mailManager managers.MailMgr,
	taskManager managers.TaskMgr, verifyEmailDomain bool) AuthHdl {
	return &AuthHandler{
		UserRepository:    userRepository,
		JWTManager:        jwtManager,
		MailManager:       mailManager,
		TaskManager:       taskManager,
		Validator:         utils.GetValidator(),
		VerifyEmailDomain: verifyEmailDomain,
		now:               time.Now,
	}
}

// Signup creates an account and answers 201 with the user id and a fresh token.
func (handler *AuthHandler) Signup(c *gin.Context) {
	signupRequest, ok := payload[schemas.SignupRequest](c)
	if !ok {
		return
	}
	email := strings.ToLower(strings.TrimSpace(signupRequest.Email))

	if handler.VerifyEmailDomain && !handler.Validator.VerifyEmail(email) {
		utils.WriteAndLogError(c, schemas.EmailUnreachable, http.StatusBadRequest, errors.New("mx lookup failed"))
		return
	}

	// Check if the email is taken
	if _, err := handler.UserRepository.GetByEmail(c, email); err == nil {
		utils.WriteAndLogError(c, schemas.UserAlreadyExist, http.StatusBadRequest, errors.New("email taken"))
		return
	} else if !errors.Is(err, repositories.ErrNotFound) {
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(signupRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	now := handler.now()
	user := &schemas.User{
		UserId:    uuid.NewString(),
		Email:     email,
		Username:  signupRequest.Username,
		Password:  string(hashedPassword),
		Birthdate: signupRequest.Birthdate,
		Activated: true,
		Hashtags:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = handler.UserRepository.Create(c, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			utils.WriteAndLogError(c, schemas.UserAlreadyExist, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.UserId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	handler.TaskManager.Submit(utils.DetachedContext(c), "welcome_mail", func(ctx context.Context) error {
		return handler.MailManager.SendWelcomeMail(ctx, user.Email, user.Username)
	})

	utils.WriteAndLogResponse(c, &schemas.AuthDTO{UserId: user.UserId, Token: token}, http.StatusCreated)
}

// Login exchanges email and password for a token.
func (handler *AuthHandler) Login(c *gin.Context) {
	loginRequest, ok := payload[schemas.LoginRequest](c)
	if !ok {
		return
	}

	user, err := handler.UserRepository.GetByEmail(c, strings.ToLower(strings.TrimSpace(loginRequest.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.WriteAndLogError(c, schemas.EmailNotFound, http.StatusBadRequest, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.WrongPassword, http.StatusBadRequest, err)
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.UserId)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, http.StatusInternalServerError, err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.AuthDTO{UserId: user.UserId, Token: token}, http.StatusOK)
}
