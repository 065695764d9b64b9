package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/handlers"
	"github.com/ecofest/accreditation-api/internal/lifecycle"
	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/middleware/auth"
	"github.com/ecofest/accreditation-api/internal/middleware/events"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	container  *postgres.Container
	store      blob.Store
	controller *lifecycle.Controller
}

// New creates a new server instance
func New(cfg *config.Config, container *postgres.Container, store blob.Store, controller *lifecycle.Controller) *Server {
	return &Server{
		config:     cfg,
		container:  container,
		store:      store,
		controller: controller,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		// Timeouts seguros según estándares de Go
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware básico
	router.Use(gin.Recovery())
	router.Use(events.RequestLogger())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	if s.config.CORS.AllowOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(s.config.CORS.AllowOrigins, ",")
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Inicializar handlers
	registrationHandler := handlers.NewRegistrationHandler(
		s.controller,
		s.container.Registrations(),
		s.container.Badges(),
		s.store,
		s.config.Storage.MaxFileSize,
	)
	eventHandler := handlers.NewEventHandler(s.container.Events())

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Accreditation API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, registrationHandler, eventHandler)

	return router
}

// setupAPIRoutes configures all API routes
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	registrationHandler *handlers.RegistrationHandler,
	eventHandler *handlers.EventHandler,
) {
	admin := auth.RequireAdmin(s.config.Auth.JWTSecret)

	api := router.Group("/api")
	{
		registrations := api.Group("/registrations")
		{
			// rutas públicas: el formulario de inscripción
			registrations.POST("", registrationHandler.Submit)
			registrations.POST("/:id/documents", registrationHandler.UploadDocument)

			// rutas de administración
			registrations.GET("", admin, registrationHandler.List)
			registrations.GET("/:id", admin, registrationHandler.Get)
			registrations.POST("/:id/status", admin, registrationHandler.UpdateStatus)
			registrations.POST("/:id/resend-confirmation", admin, registrationHandler.ResendConfirmation)
			registrations.GET("/:id/badge", admin, registrationHandler.GetBadge)
		}

		eventsGroup := api.Group("/events")
		{
			eventsGroup.GET("", eventHandler.GetAllEvents)
			eventsGroup.GET("/:id", eventHandler.GetEvent)
			eventsGroup.POST("", admin, eventHandler.CreateEvent)
		}
	}
}
