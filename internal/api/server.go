package api

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Server exposes the reverse normalization API over HTTP
type Server struct {
	router *gin.Engine
}

// NewServer creates the router and registers all routes
func NewServer(handler *ExplanationHandler, ginMode string) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}
	s := &Server{router: gin.Default()}
	s.setupRoutes(handler)
	return s
}

func (s *Server) setupRoutes(handler *ExplanationHandler) {
	s.router.GET("/healthz", handler.Health)

	api := s.router.Group("/api/v1/explanations")
	{
		api.POST("/reverse-normalize", handler.ReverseNormalize)
		api.GET("", handler.ListExplanations)
		api.GET("/:id", handler.GetExplanation)
	}
}

// Router returns the underlying engine, used by tests and custom listeners
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens on addr until the server fails
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}
