package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/pagination"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/principal"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// data wraps a successful payload.
func data(v interface{}) fiber.Map {
	return fiber.Map{"data": v}
}

func pageParams(c *fiber.Ctx) pagination.Params {
	return pagination.New(c.QueryInt("limit", pagination.DefaultLimit), c.QueryInt("page", pagination.DefaultPage))
}

func actor(c *fiber.Ctx) (services.Actor, bool) {
	id, err := principal.GetUserID(c)
	if err != nil {
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Admin: principal.IsAdmin(c)}, true
}

func pathID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	return id, err == nil
}
