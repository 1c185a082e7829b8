package handlers

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	caller, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := h.postService.Create(c.UserContext(), caller, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(data(post))
}

// List returns active posts.
func (h *PostHandler) List(c *fiber.Ctx) error {
	return h.list(c, services.PostsActive)
}

// ListAll includes inactive posts. Mounted behind the admin middleware.
func (h *PostHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, services.PostsAll)
}

func (h *PostHandler) ListOwned(c *fiber.Ctx) error {
	return h.list(c, services.PostsOwned)
}

func (h *PostHandler) list(c *fiber.Ctx, scope services.PostScope) error {
	caller, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}

	list, err := h.postService.FindAll(c.UserContext(), caller, scope, pageParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *PostHandler) ListFavorites(c *fiber.Ctx) error {
	caller, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}

	list, err := h.postService.FindFavorites(c.UserContext(), caller, pageParams(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	return h.withPost(c, h.postService.FindOneByID)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return h.withPost(c, func(ctx context.Context, caller services.Actor, id uuid.UUID) (*services.PostView, error) {
		return h.postService.Update(ctx, caller, id, &req)
	})
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	caller, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid post id")
	}

	if err := h.postService.Delete(c.UserContext(), caller, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

func (h *PostHandler) ToggleActive(c *fiber.Ctx) error {
	return h.withPost(c, h.postService.ToggleActive)
}

func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	return h.withPost(c, h.postService.ToggleLike)
}

func (h *PostHandler) ToggleFavorite(c *fiber.Ctx) error {
	return h.withPost(c, h.postService.ToggleFavorite)
}

func (h *PostHandler) Comment(c *fiber.Ctx) error {
	var req dto.CommentPostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return h.withPost(c, func(ctx context.Context, caller services.Actor, id uuid.UUID) (*services.PostView, error) {
		return h.postService.AddComment(ctx, caller, id, &req)
	})
}

// withPost runs a single-post operation for the caller on the :id post.
func (h *PostHandler) withPost(c *fiber.Ctx, op func(context.Context, services.Actor, uuid.UUID) (*services.PostView, error)) error {
	caller, ok := actor(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid post id")
	}

	post, err := op(c.UserContext(), caller, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(post))
}
