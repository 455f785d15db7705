package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"telegraph_dispatch/internal/interfaces"
)

// BotStatusProvider is the slice of the Telegram client manager the admin
// API uses.
type BotStatusProvider interface {
	interfaces.TokenValidator
	GetStatus(botID int64) (connected bool, botName string)
}

// TelegramHandler handles Telegram bot management endpoints
type TelegramHandler struct {
	tg BotStatusProvider
}

// NewTelegramHandler creates a new Telegram handler
func NewTelegramHandler(tg BotStatusProvider) *TelegramHandler {
	return &TelegramHandler{tg: tg}
}

// RegisterRoutes registers Telegram management routes
func (h *TelegramHandler) RegisterRoutes(api *gin.RouterGroup) {
	tg := api.Group("/telegram")
	{
		tg.GET("/status/:id", h.GetStatus)
		tg.POST("/validate", h.ValidateToken)
	}
}

// GetStatus reports whether a client for the bot is currently cached
func (h *TelegramHandler) GetStatus(c *gin.Context) {
	botID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot ID"})
		return
	}

	connected, botName := h.tg.GetStatus(botID)
	c.JSON(http.StatusOK, gin.H{
		"bot_id":    botID,
		"connected": connected,
		"bot_name":  botName,
	})
}

// ValidateToken checks a token with getMe without storing it
func (h *TelegramHandler) ValidateToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	token := SanitizeString(req.Token)
	if !ValidBotToken(token) {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "Invalid token format"})
		return
	}

	username, err := h.tg.ValidateToken(c.Request.Context(), token)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Token rejected by Telegram"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "bot_name": username})
}
