// Package server exposes the chat engine over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"luna_chat/src/chat"
	"luna_chat/src/logger"
	"luna_chat/src/model"

	"github.com/gin-gonic/gin"
)

const personalityLabel = "Luna 🌙 - Modular"

// Routes lists what NoRoute advertises.
var Routes = []string{
	"POST /api/chat",
	"GET /api/status",
	"GET /api/history",
	"GET /api/history/:userId",
	"GET /api/luna/emotional-state",
	"GET /api/luna/mood",
	"GET /api/ping",
}

type Server struct {
	engine *chat.Engine
	router *gin.Engine
	http   *http.Server
}

// New builds the router. Set gin's mode before calling it.
func New(engine *chat.Engine, config model.ServerConfig) *Server {
	s := &Server{engine: engine}

	router := gin.New()
	router.Use(requestLogger(), recovery(engine.UserName()), cors())

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/status", s.handleStatus)
		api.GET("/history", s.handleHistory)
		api.GET("/history/:userId", s.handleHistory)
		api.GET("/luna/emotional-state", s.handleEmotionalState)
		api.GET("/luna/mood", s.handleMood)
		api.GET("/ping", s.handlePing)
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Error:           "Ruta no encontrada",
			Response:        "Mmm... eso no existe, " + engine.UserName() + ". ¿Te perdiste buscándome?",
			AvailableRoutes: Routes,
		})
	})

	s.router = router
	s.http = &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	logger.Info().Str("addr", s.http.Addr).Str("model", s.engine.ModelName()).Msg("Luna is listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
