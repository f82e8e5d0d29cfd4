package ui

import (
	"github.com/gin-gonic/gin"

	"testworth/app"
	"testworth/internal"
	"testworth/ports"
)

// Server is the HTTP front for the analysis engine. It only translates
// between JSON and the service; all semantics live below it.
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	ledger  ports.LedgerPort
	logger  *internal.Logger
}

// NewServer creates the API server and registers routes
func NewServer(service *app.AnalysisService, ledger ports.LedgerPort, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		ledger:  ledger,
		logger:  logger,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.POST("/evpi", s.handleEVPI)
	api.POST("/evsi", s.handleEVSI)
	api.POST("/netvalue", s.handleNetValue)
	api.POST("/report", s.handleReport)
	api.GET("/calculations", s.handleListCalculations)
}

// Router exposes the underlying engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server on the given port
func (s *Server) Run(port string) error {
	s.logger.Info("API server listening on :%s", port)
	return s.router.Run(":" + port)
}
