package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/usecases"
)

// AdminHandler exposes the bot registry. Tokens never leave the service
// unredacted.
type AdminHandler struct {
	registry *usecases.BotRegistry
}

func NewAdminHandler(registry *usecases.BotRegistry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

func (h *AdminHandler) RegisterRoutes(api *gin.RouterGroup) {
	bots := api.Group("/bots")
	{
		bots.GET("", h.ListBots)
		bots.POST("", h.CreateBot)
		bots.POST("/:id/chats", h.AddChat)
	}
}

type botView struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Token     string          `json:"token"`
	CreatedAt time.Time       `json:"created_at"`
	Chats     []entities.Chat `json:"chats"`
}

func newBotView(b entities.Bot, chats []entities.Chat) botView {
	if chats == nil {
		chats = []entities.Chat{}
	}
	return botView{
		ID:        b.ID,
		Name:      b.Name,
		Token:     b.RedactedToken(),
		CreatedAt: b.CreatedAt,
		Chats:     chats,
	}
}

// ListBots returns every bot with its chats
func (h *AdminHandler) ListBots(c *gin.Context) {
	bots, err := h.registry.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bots"})
		return
	}

	result := make([]botView, len(bots))
	for i, b := range bots {
		result[i] = newBotView(b.Bot, b.Chats)
	}
	c.JSON(http.StatusOK, result)
}

// CreateBot validates a token against Telegram and stores it
func (h *AdminHandler) CreateBot(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	token := SanitizeString(req.Token)
	name := SanitizeString(req.Name)
	if !ValidBotToken(token) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token format"})
		return
	}
	if !ValidBotName(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot name"})
		return
	}

	bot, err := h.registry.Register(c.Request.Context(), token, name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBotView(*bot, nil))
}

// AddChat registers a chat (numeric id or @channel) for a bot
func (h *AdminHandler) AddChat(c *gin.Context) {
	botID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || botID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bot ID"})
		return
	}

	var req struct {
		ChatID string `json:"chat_id" binding:"required"`
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat_id is required"})
		return
	}

	chat, err := h.registry.AddChat(c.Request.Context(), botID, SanitizeString(req.ChatID), TruncateString(SanitizeString(req.Name), MaxChatNameLength))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *AdminHandler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrBotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Bot not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
