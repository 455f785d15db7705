package http

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/infrastructure"
	"telegraph_dispatch/internal/interfaces"
	"telegraph_dispatch/internal/usecases"
)

//go:embed templates/*.html
var templateFS embed.FS

const healthTimeout = 2 * time.Second

// Dependencies groups everything the route table needs. Auth may be nil, in
// which case the admin API is not mounted.
type Dependencies struct {
	Dispatcher    *usecases.MessageDispatcher
	Registry      *usecases.BotRegistry
	Auth          *usecases.AuthUsecase
	Store         interfaces.BotStore
	Telegram      BotStatusProvider
	ClientLimiter *infrastructure.MessageRateLimiter[string]
	Logger        *zerolog.Logger
}

type Handler struct {
	dispatcher *usecases.MessageDispatcher
	store      interfaces.BotStore
}

func NewHandler(dispatcher *usecases.MessageDispatcher, store interfaces.BotStore) *Handler {
	return &Handler{dispatcher: dispatcher, store: store}
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	h := NewHandler(deps.Dispatcher, deps.Store)
	middleware := NewMiddleware(deps.Auth, deps.ClientLimiter, deps.Logger)

	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	r.Use(SecurityHeaders())

	// Public Routes
	r.GET("/", h.Welcome)
	r.GET("/send-message", middleware.RateLimitPerClient(), h.SendMessage)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Auth == nil {
		deps.Logger.Info().Msg("admin api disabled: no jwt secret configured")
		return
	}

	adminHandler := NewAdminHandler(deps.Registry)
	telegramHandler := NewTelegramHandler(deps.Telegram)

	api := r.Group("/api")
	api.Use(RequestSizeLimiter(1 << 20))
	api.Use(middleware.CORSMiddleware())
	api.Use(middleware.AuthRequired())
	{
		adminHandler.RegisterRoutes(api)
		telegramHandler.RegisterRoutes(api)
	}
}

// Welcome serves the static landing page.
func (h *Handler) Welcome(c *gin.Context) {
	c.HTML(http.StatusOK, "welcome.html", gin.H{"Title": "Telegraph Dispatch"})
}

// SendMessage dispatches the configured message once. Failures keep the
// framework's empty error body; the logger middleware records the cause.
func (h *Handler) SendMessage(c *gin.Context) {
	if _, err := h.dispatcher.Dispatch(c.Request.Context()); err != nil {
		_ = c.AbortWithError(statusFor(err), err)
		return
	}
	c.String(http.StatusOK, usecases.SuccessMessage)
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrProviderFailure):
		return http.StatusBadGateway
	default:
		// Missing bot or chat is a server-side configuration problem.
		return http.StatusInternalServerError
	}
}
