package routing

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server-yool/internal/config"
	"server-yool/internal/handlers"
	"server-yool/internal/managers"
	"server-yool/internal/middleware"
	"server-yool/internal/repositories"
	"server-yool/internal/schemas"
	"server-yool/internal/utils"
)

func InitRouter(cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr, jwtMgr managers.JWTMgr,
	taskMgr managers.TaskMgr) *gin.Engine {
	// Initialize router with logging and recovery middleware
	router := gin.New()
	// Repositories receive the gin context, which must fall back to the request context
	router.ContextWithFallback = true
	// Initialize middleware
	setupCommonMiddleware(router, cfg)
	// Setup routes
	setupRoutes(router, cfg, databaseMgr, mailMgr, jwtMgr, taskMgr)

	return router
}

func setupCommonMiddleware(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.InjectTrace())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id"},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
	})
	router.Use(middleware.SanitizePath())
	router.Use(middleware.LogRequest())
}

func setupRoutes(router *gin.Engine, cfg *config.Config, databaseMgr managers.DatabaseMgr, mailMgr managers.MailMgr,
	jwtMgr managers.JWTMgr, taskMgr managers.TaskMgr) {
	pool := databaseMgr.GetPool()
	userRepository := repositories.NewUserRepository(pool)
	eventRepository := repositories.NewEventRepository(pool)
	conversationRepository := repositories.NewConversationRepository(pool)

	// Set up version route
	router.GET("/", func(c *gin.Context) {
		metadata := &schemas.MetadataDTO{
			ApiVersion: cfg.ServiceName(),
			ApiName:    "Yool Server",
		}
		if cfg.PullRequest != "" {
			metadata.PullRequest = "PR-" + cfg.PullRequest
		}
		utils.WriteAndLogResponse(c, metadata, http.StatusOK)
	})

	// Set up health route
	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c); err != nil {
			utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusServiceUnavailable, err)
			return
		}
		utils.WriteAndLogResponse(c, "healthy", http.StatusOK)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authorize := middleware.Authorize(jwtMgr, taskMgr, userRepository, cfg.AuthLegacyStatus)

	// Set up auth routes
	authRouter := router.Group("/auth")
	authRouter.Use(middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst).Handler())
	authHdl := handlers.NewAuthHandler(userRepository, jwtMgr, mailMgr, taskMgr, cfg.VerifyEmailDomain)
	authRoutes(authRouter, authHdl)

	// Set up user routes
	userRouter := router.Group("/user")
	userRouter.Use(authorize)
	userHdl := handlers.NewUserHandler(userRepository)
	userRoutes(userRouter, userHdl, userRepository)

	// Set up event routes
	eventRouter := router.Group("/event")
	eventRouter.Use(authorize)
	eventHdl := handlers.NewEventHandler(eventRepository, userRepository)
	eventRoutes(eventRouter, eventHdl, eventRepository)

	// Set up conversation routes
	messageRouter := router.Group("/message")
	messageRouter.Use(authorize)
	conversationHdl := handlers.NewConversationHandler(conversationRepository)
	messageRouter.GET("/:"+utils.ConversationIdParamKey,
		middleware.LoadResource(utils.ConversationIdParamKey, utils.ConversationKey, conversationRepository.GetByID,
			schemas.ConversationNotFound),
		conversationHdl.GetMessages)
}

func authRoutes(authRouter *gin.RouterGroup, authHdl handlers.AuthHdl) {
	authRouter.POST("/signup", middleware.ValidateAndSanitizeStruct[schemas.SignupRequest](), authHdl.Signup)
	authRouter.POST("/login", middleware.ValidateAndSanitizeStruct[schemas.LoginRequest](), authHdl.Login)
}

func userRoutes(userRouter *gin.RouterGroup, userHdl handlers.UserHdl, userRepository repositories.UserRepo) {
	loadUser := middleware.LoadResource(utils.UserIdParamKey, utils.UserKey, userRepository.GetByID, schemas.UserNotFound)
	ownUser := middleware.RequireOwner(utils.UserKey, middleware.UserOwner)
	path := "/:" + utils.UserIdParamKey

	userRouter.GET(path, loadUser, userHdl.GetUser)
	userRouter.PUT(path, loadUser, ownUser, middleware.ValidateAndSanitizeStruct[schemas.ModifyProfileRequest](), userHdl.ModifyUser)
	userRouter.DELETE(path, loadUser, ownUser, middleware.ValidateAndSanitizeStruct[schemas.DeleteProfileRequest](), userHdl.DeleteUser)
	userRouter.PUT(path+"/location", loadUser, ownUser, middleware.ValidateAndSanitizeStruct[schemas.LocationRequest](), userHdl.UpdateLocation)
	userRouter.POST(path+"/hashtag", loadUser, ownUser, middleware.ValidateAndSanitizeStruct[schemas.HashtagRequest](), userHdl.AddHashtag)
	userRouter.DELETE(path+"/hashtag", loadUser, ownUser, middleware.ValidateAndSanitizeStruct[schemas.HashtagRequest](), userHdl.RemoveHashtag)
	userRouter.POST(path+"/notificationToken", loadUser, ownUser,
		middleware.ValidateAndSanitizeStruct[schemas.NotificationTokenRequest](), userHdl.AddNotificationToken)
}

func eventRoutes(eventRouter *gin.RouterGroup, eventHdl handlers.EventHdl, eventRepository repositories.EventRepo) {
	// Discovery routes are static prefixes and take precedence over /:event_id
	distance := "/:" + utils.DistanceParamKey + "/:" + utils.PageParamKey
	eventRouter.GET("/distance"+distance, eventHdl.DiscoverEvents)
	eventRouter.GET("/distance/hashtag"+distance+"/:"+utils.HashtagParamKey, eventHdl.DiscoverEventsByHashtag)
	eventRouter.GET("/distance/user"+distance+"/:"+utils.ParticipantParamKey, eventHdl.DiscoverEventsByParticipant)

	eventRouter.POST("", middleware.ValidateAndSanitizeStruct[schemas.CreateEventRequest](), eventHdl.CreateEvent)

	loadEvent := middleware.LoadResource(utils.EventIdParamKey, utils.EventKey, eventRepository.GetByID, schemas.EventNotFound)
	ownEvent := middleware.RequireOwner(utils.EventKey, middleware.EventOwner)
	path := "/:" + utils.EventIdParamKey

	eventRouter.GET(path, loadEvent, eventHdl.GetEvent)
	eventRouter.PUT(path, loadEvent, ownEvent, middleware.ValidateAndSanitizeStruct[schemas.ModifyEventRequest](), eventHdl.ModifyEvent)
	eventRouter.DELETE(path, loadEvent, ownEvent, eventHdl.DeleteEvent)

	eventRouter.GET(path+"/join", loadEvent, eventHdl.GetJoined)
	eventRouter.POST(path+"/join", loadEvent, eventHdl.JoinEvent)
	eventRouter.DELETE(path+"/join", loadEvent, eventHdl.LeaveEvent)

	eventRouter.GET(path+"/like", loadEvent, eventHdl.GetLikes)
	eventRouter.POST(path+"/like", loadEvent, eventHdl.LikeEvent)
	eventRouter.DELETE(path+"/like", loadEvent, eventHdl.UnlikeEvent)

	eventRouter.GET(path+"/picture", loadEvent, eventHdl.GetPictures)
	eventRouter.POST(path+"/picture", loadEvent, middleware.ValidateAndSanitizeStruct[schemas.PictureRequest](), eventHdl.AddPicture)

	eventRouter.POST(path+"/report", loadEvent, eventHdl.ReportEvent)
}
