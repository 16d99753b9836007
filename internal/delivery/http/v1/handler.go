package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/smart-task/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetMe(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
	HandleChangePassword(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTaskStats(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleToggleTaskCompletion(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

// CookieConfig describes the cookie that carries the session token.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
	cookie   CookieConfig
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	cookie CookieConfig,
) Handler {
	if cookie.Name == "" {
		cookie.Name = defaultCookieName
	}
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		tasks:    taskService,
		cookie:   cookie,
	}
}

// RegisterRoutes mounts the API on router. The caller picks the prefix.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.POST("/users", h.HandleRegister)
	router.POST("/sessions", h.HandleLogin)

	authorized := router.Group("", h.HandleAuthMiddleware)
	authorized.DELETE("/sessions", h.HandleLogout)

	authorized.GET("/users/me", h.HandleGetMe)
	authorized.PUT("/users/me", h.HandleUpdateProfile)
	authorized.PUT("/users/me/password", h.HandleChangePassword)

	tasks := authorized.Group("/tasks")
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("", h.HandleGetTasks)
	tasks.GET("/stats", h.HandleGetTaskStats)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.PATCH("/:id/completion", h.HandleToggleTaskCompletion)
	tasks.DELETE("/:id", h.HandleDeleteTask)
}
