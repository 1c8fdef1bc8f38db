package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moodmate/internal/domain"
	"moodmate/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de conversacion.
type ChatHandler struct {
	logger    *zap.Logger
	chatServ  *service.ChatService
	responder *service.ResponderService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService, responder *service.ResponderService) *ChatHandler {
	return &ChatHandler{
		logger:    logger,
		chatServ:  chatServ,
		responder: responder,
	}
}

// List maneja GET /api/chats.
func (h *ChatHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	messages, err := h.chatServ.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list chats failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Append maneja POST /api/chats.
func (h *ChatHandler) Append(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Role    string `json:"role" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid append request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.chatServ.Append(c.Request.Context(), domain.ChatMessage{
		UserID:  claims.UserID,
		Role:    req.Role,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, service.ErrChatInvalidRole) || errors.Is(err, service.ErrChatEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("append chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not append message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// Clear maneja DELETE /api/chats.
func (h *ChatHandler) Clear(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	if err := h.chatServ.ClearAll(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Error("clear chats failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear messages"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Turn maneja POST /api/chats/turn: el flujo completo de un turno.
func (h *ChatHandler) Turn(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid turn request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.responder.Turn(c.Request.Context(), claims.UserID, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrResponderFailure) {
			h.logger.Error("responder failed", zap.Error(err), zap.String("user_id", claims.UserID))
			c.JSON(http.StatusBadGateway, gin.H{"error": "responder unavailable"})
			return
		}
		h.logger.Error("turn failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not complete turn"})
		return
	}

	c.JSON(http.StatusOK, result)
}
