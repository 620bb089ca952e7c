package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campus-kit/helpdesk/internal/api/http/handlers"
	"github.com/campus-kit/helpdesk/internal/auth"
	"github.com/campus-kit/helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Requests      *handlers.RequestsHandler
	Chat          *handlers.ChatHandler
	Announcements *handlers.AnnouncementsHandler
	Auth          *handlers.AuthHandler
	Profile       *handlers.ProfileHandler
	Identity      *auth.IdentityMiddleware
	Metrics       *observability.Metrics
	// AttachmentsURL and AttachmentsDir mount stored chat files; empty
	// AttachmentsDir skips the mount.
	AttachmentsURL string
	AttachmentsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if reg := cfg.Metrics.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}
	if cfg.AttachmentsDir != "" {
		app.Static(cfg.AttachmentsURL, cfg.AttachmentsDir, fiber.Static{ByteRange: true})
	}

	api := app.Group("/api/v1")
	if cfg.Identity != nil {
		api.Use(cfg.Identity.Handle)
	}
	if cfg.Auth != nil {
		api.Post("/auth/login", cfg.Auth.Login)
	}
	if cfg.Profile != nil {
		api.Get("/profile", cfg.Profile.Get)
		api.Patch("/profile", cfg.Profile.Update)
	}

	requests := api.Group("/requests")
	requests.Get("/", cfg.Requests.ListRequests)
	requests.Post("/", cfg.Requests.CreateRequest)
	requests.Get("/:id", cfg.Requests.GetRequest)
	requests.Patch("/:id/status", cfg.Requests.UpdateStatus)
	requests.Post("/:id/reopen", cfg.Requests.Reopen)
	requests.Post("/:id/feedback", cfg.Requests.SubmitFeedback)
	requests.Post("/:id/assign", cfg.Requests.Assign)

	requests.Get("/:id/messages", cfg.Chat.ListMessages)
	requests.Post("/:id/messages", cfg.Chat.PostMessage)
	requests.Post("/:id/messages/read", cfg.Chat.MarkRead)
	requests.Post("/:id/attachments", cfg.Chat.UploadAttachment)

	announcements := api.Group("/announcements")
	announcements.Get("/", cfg.Announcements.List)
	announcements.Post("/", cfg.Announcements.Create)
	announcements.Delete("/:id", cfg.Announcements.Delete)

	api.Get("/reports", cfg.Requests.Report)
}
