package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/adanyl0v/smart-task/internal/config"
	"github.com/adanyl0v/smart-task/internal/delivery/http/v1"
	"github.com/adanyl0v/smart-task/internal/password"
	"github.com/adanyl0v/smart-task/internal/services"
	"github.com/adanyl0v/smart-task/internal/storage"
)

const tracerName = "github.com/adanyl0v/smart-task/internal/delivery/http"

func MustListenAndServeHTTP(logger zerolog.Logger, cfg *config.Config, store storage.Store) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP
	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           mustNewRouter(logger, cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends SIGTERM, kill -2 sends SIGINT.
	// SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	logger.Info().Msg("shut down http server")
}

func mustNewRouter(logger zerolog.Logger, cfg *config.Config, store storage.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(v1.RequestLogger(logger))
	router.Use(v1.Tracing(otel.Tracer(tracerName)))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		err := store.Ping(ctx)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("storage ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Storage unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	v1.RegisterRoutes(router.Group("/api/v1"), mustNewHandler(logger, cfg, store))
	return router
}

func mustNewHandler(logger zerolog.Logger, cfg *config.Config, store storage.Store) v1.Handler {
	loc, err := time.LoadLocation(cfg.Tasks.Timezone)
	if err != nil {
		logger.Error().
			Err(err).
			Str("timezone", cfg.Tasks.Timezone).
			Msg("failed to load timezone")
		panic(err)
	}

	var hasher password.Hasher
	switch cfg.Password.Algorithm {
	case config.PasswordAlgorithmBcrypt:
		hasher = password.NewBcrypt(cfg.Password.BcryptCost)
	default:
		hasher = password.NewArgon2id(nil)
	}

	sessionCfg := cfg.Session
	sessionService := services.NewSessionService(
		logger.With().Str("service", "sessions").Logger(),
		store.Users(),
		services.SessionConfig{
			Issuer:        sessionCfg.Issuer,
			SigningKey:    []byte(sessionCfg.SigningKey),
			TTL:           sessionCfg.TTL,
			RememberMeTTL: sessionCfg.RememberMeTTL,
		},
		nil,
	)
	authService := services.NewAuthService(
		logger.With().Str("service", "auth").Logger(),
		store.Users(),
		hasher,
		sessionService,
		nil,
	)
	taskService := services.NewTaskService(
		logger.With().Str("service", "tasks").Logger(),
		store.Tasks(),
		loc,
		nil,
	)

	return v1.New(
		logger.With().Str("component", "http").Logger(),
		authService,
		sessionService,
		taskService,
		v1.CookieConfig{
			Name:   sessionCfg.CookieName,
			Domain: sessionCfg.CookieDomain,
			Secure: sessionCfg.CookieSecure,
		},
	)
}
