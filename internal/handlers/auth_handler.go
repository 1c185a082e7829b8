package handlers

import (
	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/principal"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(data(resp))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(resp))
}

func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.LoginAdmin(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(resp))
}

func (h *AuthHandler) Whoami(c *fiber.Ctx) error {
	userID, err := principal.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.authService.Whoami(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(user))
}
