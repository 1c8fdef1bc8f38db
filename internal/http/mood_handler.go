package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moodmate/internal/domain"
	"moodmate/internal/service"
)

// MoodHandler mantiene dependencias para los endpoints del historial de animo.
type MoodHandler struct {
	logger   *zap.Logger
	moodServ *service.MoodService
}

func NewMoodHandler(logger *zap.Logger, moodServ *service.MoodService) *MoodHandler {
	return &MoodHandler{
		logger:   logger,
		moodServ: moodServ,
	}
}

// List maneja GET /api/moods.
func (h *MoodHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	entries, err := h.moodServ.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list moods failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list moods"})
		return
	}
	if entries == nil {
		entries = []domain.MoodEntry{}
	}

	c.JSON(http.StatusOK, gin.H{"moods": entries})
}

// Append maneja POST /api/moods. Etiquetas fuera del enum se rechazan.
func (h *MoodHandler) Append(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Mood string `json:"mood" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid mood request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := h.moodServ.Append(c.Request.Context(), claims.UserID, req.Mood)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMood) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mood label"})
			return
		}
		h.logger.Error("append mood failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not append mood"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mood": entry})
}

// Trend maneja GET /api/moods/trend.
func (h *MoodHandler) Trend(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	trend, err := h.moodServ.Trend(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("mood trend failed", zap.Error(err), zap.String("user_id", claims.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build trend"})
		return
	}

	c.JSON(http.StatusOK, trend)
}
