package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/coveragewatch/coverage-sentinel/api/handlers"
	"github.com/coveragewatch/coverage-sentinel/api/middleware"
	"github.com/coveragewatch/coverage-sentinel/api/websocket"
	"github.com/coveragewatch/coverage-sentinel/internal/auth"
	"github.com/coveragewatch/coverage-sentinel/internal/logger"
	"github.com/coveragewatch/coverage-sentinel/internal/orchestrator"
	"github.com/coveragewatch/coverage-sentinel/pkg/config"
	"github.com/coveragewatch/coverage-sentinel/pkg/database"
	"github.com/coveragewatch/coverage-sentinel/pkg/database/queries"
	"github.com/gin-gonic/gin"
)

// Server wires the HTTP surface over the orchestrator: REST handlers,
// the websocket hub and the event bridge that feeds it.
type Server struct {
	config      *config.Config
	router      *gin.Engine
	httpServer  *http.Server
	hub         *websocket.Hub
	bridge      *websocket.EventBridge
	orch        *orchestrator.Orchestrator
	authService *auth.Service
}

func NewServer(cfg *config.Config, orch *orchestrator.Orchestrator, db *database.DB) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:      cfg,
		router:      gin.New(),
		hub:         websocket.NewHub(),
		orch:        orch,
		authService: auth.NewService(cfg.API.JWTSecret, cfg.API.JWTDuration),
	}

	s.bridge = websocket.NewEventBridge(s.hub, orch.SubscribeAllEvents())

	var userRepo *queries.UserRepository
	var transitionRepo *queries.TransitionRepository
	var rosterRepo *queries.RosterRepository
	if db != nil {
		userRepo = queries.NewUserRepository(db.DB)
		transitionRepo = queries.NewTransitionRepository(db.DB)
		rosterRepo = queries.NewRosterRepository(db.DB)
	}

	s.setupMiddleware()
	s.setupRoutes(db, userRepo, transitionRepo, rosterRepo)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.RequestLogger())

	corsCfg := middleware.DefaultCORSConfig()
	if len(s.config.API.CORS.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = s.config.API.CORS.AllowedOrigins
	}
	if len(s.config.API.CORS.AllowedMethods) > 0 {
		corsCfg.AllowMethods = s.config.API.CORS.AllowedMethods
	}
	if len(s.config.API.CORS.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = s.config.API.CORS.AllowedHeaders
	}
	corsCfg.AllowCredentials = s.config.API.CORS.AllowCredentials
	s.router.Use(middleware.CORS(corsCfg))

	if s.config.API.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(s.config.API.RateLimit, time.Minute)
		s.router.Use(middleware.RateLimit(limiter))
	}
}

func (s *Server) setupRoutes(db *database.DB, userRepo *queries.UserRepository, transitionRepo *queries.TransitionRepository, rosterRepo *queries.RosterRepository) {
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(userRepo, s.authService, s.config.API.JWTDuration)
	rosterHandler := handlers.NewRosterHandler(s.orch, rosterRepo)
	transitionsHandler := handlers.NewTransitionsHandler(transitionRepo)
	scenariosHandler := handlers.NewScenariosHandler(s.orch)
	metricsHandler := handlers.NewMetricsHandler()

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)
	s.router.GET("/health/live", healthHandler.Live)

	s.router.POST("/auth/login", middleware.AuthRateLimiter(), authHandler.Login)

	s.router.GET("/ws", websocket.ServeWebSocket(s.hub))

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(s.authService))
	{
		v1.GET("/roster", rosterHandler.GetRoster)
		v1.GET("/roster/:unit/history", rosterHandler.GetUnitHistory)
		v1.GET("/transitions", transitionsHandler.GetRecent)
		v1.GET("/transitions/counts", transitionsHandler.GetCounts)
		v1.GET("/units/:unit/transitions", transitionsHandler.GetByUnit)
		v1.GET("/scenarios/report", scenariosHandler.GetReport)
		v1.POST("/scenarios/run", scenariosHandler.Run)
		v1.GET("/metrics", metricsHandler.GetMetrics)
	}
}

func (s *Server) Start() error {
	go s.hub.Run()
	s.bridge.Start()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.API.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  s.config.API.IdleTimeout,
	}

	logger.Infof("API server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.bridge.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
