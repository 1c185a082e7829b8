package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the origins in CORS_ORIGINS. Credentials are only allowed for
// an explicit origin list; a wildcard anywhere in the list opens every origin.
func CORS(cfg *config.Config) fiber.Handler {
	origins := config.ParseCSV(cfg.CORSOrigins)
	wildcard := len(origins) == 0 || config.Contains(origins, "*")

	allowOrigins := "*"
	if !wildcard {
		allowOrigins = strings.Join(origins, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, OPTIONS",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})
}
