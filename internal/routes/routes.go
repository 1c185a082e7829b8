package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/config"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	reportHandler *handlers.ReportHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)
	api.Get("/metrics", metrics.Handler())

	protected := middleware.JWTProtected(cfg)
	resolveAdmin := middleware.ResolveAdmin(db, cfg)
	adminOnly := middleware.AdminRequired()

	// Auth: credential endpoints are limited to 10 req/min per IP
	auth := api.Group("/auth")
	credentials := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	auth.Post("/register", credentials, authHandler.Register)
	auth.Post("/login", credentials, authHandler.Login)
	auth.Post("/login/admin", credentials, authHandler.LoginAdmin)
	auth.Get("/whoami", protected, authHandler.Whoami)

	// Users
	users := api.Group("/users", protected, resolveAdmin)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/:id", adminOnly, userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)
	users.Patch("/:id/role", adminOnly, userHandler.UpdateRole)

	// Posts: fixed paths before /:id
	posts := api.Group("/posts", protected, resolveAdmin)
	posts.Post("/", postHandler.Create)
	posts.Get("/", postHandler.List)
	posts.Get("/all", adminOnly, postHandler.ListAll)
	posts.Get("/owned", postHandler.ListOwned)
	posts.Get("/favorites", postHandler.ListFavorites)
	posts.Get("/:id", postHandler.Get)
	posts.Put("/:id", postHandler.Update)
	posts.Delete("/:id", postHandler.Delete)
	posts.Patch("/:id/active", postHandler.ToggleActive)
	posts.Patch("/:id/like", postHandler.ToggleLike)
	posts.Patch("/:id/comment", postHandler.Comment)
	posts.Patch("/:id/favorite", postHandler.ToggleFavorite)

	// Toxicity reports: anyone signed in may file, admins review
	reports := api.Group("/toxicity-reports", protected, resolveAdmin)
	reports.Post("/", reportHandler.Create)
	reports.Get("/history", adminOnly, reportHandler.History)
	reports.Get("/monitor", adminOnly, reportHandler.Monitor)
	reports.Get("/:id", adminOnly, reportHandler.Get)
	reports.Patch("/:id/decide", adminOnly, reportHandler.Decide)
}
