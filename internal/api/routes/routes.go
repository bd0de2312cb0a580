package routes

import (
	"context"
	"net/http"
	"time"

	"messaging-service/docs"
	"messaging-service/internal/api/handlers"
	"messaging-service/internal/api/middleware"
	"messaging-service/internal/config"
	"messaging-service/internal/repositories/gormstore"
	"messaging-service/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	cfg            *config.Config
	messageHandler *handlers.MessageHandler
	userHandler    *handlers.UserHandler
	authHandler    *handlers.AuthHandler
	rateLimitMW    *middleware.RateLimitMiddleware
	authMW         *middleware.AuthMiddleware
}

// NewRouter wires repositories, services and handlers. publisher may be nil.
func NewRouter(
	db *gorm.DB,
	limiter services.RateLimiter,
	publisher services.EventPublisher,
	cfg *config.Config,
) *Router {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.LogApi())

	// Initialize repositories
	messageRepo := gormstore.NewMessageRepository(db)
	userRepo := gormstore.NewUserRepository(db)

	// Initialize services
	var opts []services.MessageServiceOption
	if publisher != nil {
		opts = append(opts, services.WithPublisher(publisher))
	}
	messageService := services.NewMessageService(
		func() services.MessageStore { return messageRepo.Begin() },
		userRepo,
		opts...,
	)
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpirationTime)

	return &Router{
		engine:         engine,
		db:             db,
		cfg:            cfg,
		messageHandler: handlers.NewMessageHandler(messageService),
		userHandler:    handlers.NewUserHandler(userService),
		authHandler:    handlers.NewAuthHandler(userService),
		rateLimitMW:    middleware.NewRateLimitMiddleware(limiter),
		authMW:         middleware.NewAuthMiddleware(cfg.JWT.Secret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", r.health)

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")
	userLimit := r.rateLimitMW.RateLimit(r.cfg.RateLimit.UserRequests, r.cfg.RateLimit.Window)

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		users := auth.Group("/users")
		users.Use(userLimit)
		{
			users.GET("/profile", r.userHandler.GetProfile)
			users.PUT("/profile", r.userHandler.UpdateProfile)
		}

		messages := auth.Group("/messages")
		messages.Use(userLimit)
		{
			messages.POST("", r.messageHandler.CreateMessage)
			messages.GET("", r.messageHandler.GetMessagesForUser)
			messages.GET("/thread/:username", r.messageHandler.GetMessageThread)
			messages.DELETE("/:id", r.messageHandler.DeleteMessage)
		}
	}

	// Public routes (no authentication required)
	public := api.Group("/")
	{
		authRoutes := public.Group("/auth")
		authRoutes.Use(r.rateLimitMW.RateLimitIP(r.cfg.RateLimit.IPRequests, r.cfg.RateLimit.Window))
		{
			authRoutes.POST("/register", r.authHandler.Register)
			authRoutes.POST("/login", r.authHandler.Login)
		}
	}
}

func (r *Router) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	sqlDB, err := r.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
