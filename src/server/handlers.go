package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"luna_chat/src/chat"
	"luna_chat/src/logger"
	"luna_chat/src/model"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

func (s *Server) handleChat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.missingMessage(c)
		return
	}
	message, ok := req.Message.(string)
	if !ok || strings.TrimSpace(message) == "" {
		s.missingMessage(c)
		return
	}

	reply, err := s.engine.Handle(c.Request.Context(), chat.Request{Message: message, UserID: req.UserID})
	if errors.Is(err, chat.ErrEmptyMessage) {
		s.missingMessage(c)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("user_id", req.UserID).Msg("Chat request failed")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Error:    "Error interno",
			Response: fmt.Sprintf("Vaya, parece que hay un problemita técnico, %s. ¿Podrías intentar de nuevo? Me molesta cuando las cosas no funcionan perfectamente. 😒", s.engine.UserName()),
		})
		return
	}

	c.JSON(http.StatusOK, model.ChatResponse{
		Response:       reply.Response,
		Timestamp:      reply.Timestamp,
		UserID:         reply.UserID,
		Model:          s.engine.ModelName(),
		Personality:    personalityLabel,
		Context:        reply.Context,
		ConversationID: reply.ConversationID,
	})
}

func (s *Server) missingMessage(c *gin.Context) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error:    "Mensaje requerido",
		Response: fmt.Sprintf("¿No me vas a decir nada, %s? Necesito que me escribas algo para poder responderte. 🌙", s.engine.UserName()),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Status(c.Request.Context()))
}

func (s *Server) handleHistory(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		userID = chat.DefaultUserID
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}

	history := s.engine.History(userID, limit)
	c.JSON(http.StatusOK, model.HistoryResponse{
		History: history,
		Count:   len(history),
		UserID:  userID,
	})
}

func (s *Server) handleEmotionalState(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.EmotionalSnapshot(c.Request.Context()))
}

func (s *Server) handleMood(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Mood(c.Request.Context()))
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{
		Pong:      true,
		Timestamp: time.Now(),
		Uptime:    s.engine.Uptime().Seconds(),
		Luna:      "Siempre despierta y con personalidad modular activa 🌙",
		Status:    "Sistema modular funcionando perfectamente",
	})
}
