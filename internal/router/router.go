package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/admissions-go-api/internal/handler"
	"github.com/noah-isme/admissions-go-api/internal/middleware"
	"github.com/noah-isme/admissions-go-api/internal/observability"
)

// Dependencies bundles the handlers and settings the router wires together.
type Dependencies struct {
	JWTSecret    string
	Health       *handler.HealthHandler
	Applications *handler.ApplicationHandler
	Cohorts      *handler.CohortHandler
	Programs     *handler.ProgramHandler
	Content      *handler.ContentHandler
	Messages     *handler.MessageHandler
	Audit        *handler.AuditHandler
}

// Register mounts all routes on the Fiber app.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/health", deps.Health.Check)
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api")

	// Public surface: submissions and published content.
	api.Post("/applications", deps.Applications.Create)
	api.Get("/announcements", deps.Content.ListAnnouncements)
	api.Get("/announcements/:slug", deps.Content.GetAnnouncement)
	api.Get("/pages", deps.Content.ListPages)
	api.Get("/pages/:slug", deps.Content.GetPage)

	admin := api.Group("/admin", middleware.JWTProtected(deps.JWTSecret), middleware.RequireAdmissionsStaff())

	applications := admin.Group("/applications")
	applications.Get("/", deps.Applications.List)
	applications.Get("/:id", deps.Applications.Get)
	applications.Post("/:id/approve", deps.Applications.Approve)
	applications.Post("/:id/reject", deps.Applications.Reject)

	cohorts := admin.Group("/cohorts")
	cohorts.Post("/", deps.Cohorts.Create)
	cohorts.Get("/", deps.Cohorts.List)
	cohorts.Get("/:id", deps.Cohorts.Get)
	cohorts.Put("/:id", deps.Cohorts.Update)
	cohorts.Delete("/:id", deps.Cohorts.Delete)
	cohorts.Get("/:id/stats", deps.Cohorts.Stats)
	cohorts.Post("/:id/import", deps.Applications.Import)

	programs := admin.Group("/programs")
	programs.Post("/", deps.Programs.Create)
	programs.Get("/", deps.Programs.List)
	programs.Put("/:id", deps.Programs.Update)
	programs.Delete("/:id", deps.Programs.Delete)

	announcements := admin.Group("/announcements")
	announcements.Post("/", deps.Content.CreateAnnouncement)
	announcements.Get("/", deps.Content.ListAnnouncements)
	announcements.Put("/:id", deps.Content.UpdateAnnouncement)
	announcements.Delete("/:id", deps.Content.DeleteAnnouncement)

	pages := admin.Group("/pages")
	pages.Post("/", deps.Content.CreatePage)
	pages.Get("/", deps.Content.ListPages)
	pages.Put("/:id", deps.Content.UpdatePage)
	pages.Delete("/:id", deps.Content.DeletePage)

	messages := admin.Group("/messages")
	messages.Post("/", deps.Messages.Compose)
	messages.Get("/", deps.Messages.List)
	messages.Post("/:id/status", deps.Messages.MarkSent)

	audit := admin.Group("/audit")
	audit.Get("/", deps.Audit.List)
	audit.Use("/feed", deps.Audit.FeedUpgrade)
	audit.Get("/feed", deps.Audit.Feed())
}
