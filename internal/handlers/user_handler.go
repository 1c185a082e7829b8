package handlers

import (
	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/models"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func toUserResponses(users []models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, services.UserResponse(&users[i]))
	}
	return out
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	list, err := h.userService.List(c.UserContext(), pageParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":       toUserResponses(list.Users),
		"pagination": list.Pagination,
	})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.userService.FindByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(services.UserResponse(user)))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	caller, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.Update(c.UserContext(), caller, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(services.UserResponse(user)))
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	var req dto.UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateRole(c.UserContext(), id, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(services.UserResponse(user)))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	if err := h.userService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
