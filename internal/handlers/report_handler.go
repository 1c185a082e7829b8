package handlers

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/dto"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/principal"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, err := principal.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(data(report))
}

// History lists reports in every state.
func (h *ReportHandler) History(c *fiber.Ctx) error {
	return h.list(c, h.reportService.FindAll)
}

// Monitor lists the pending queue.
func (h *ReportHandler) Monitor(c *fiber.Ctx) error {
	return h.list(c, h.reportService.FindPending)
}

func (h *ReportHandler) list(c *fiber.Ctx, find func(context.Context, services.ReportQuery) (*services.ReportList, error)) error {
	reportType, err := services.ParseReportType(c.Query("type"))
	if err != nil {
		return respondError(c, err)
	}

	var ascending bool
	switch strings.ToLower(c.Query("order", "desc")) {
	case "asc":
		ascending = true
	case "desc":
	default:
		return badRequest(c, "order must be asc or desc")
	}

	list, err := find(c.UserContext(), services.ReportQuery{
		Pagination: pageParams(c),
		Type:       reportType,
		Ascending:  ascending,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"data":       list.Reports,
		"pagination": list.Pagination,
	})
}

func (h *ReportHandler) Get(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid report id")
	}

	report, err := h.reportService.FindOneByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(report))
}

func (h *ReportHandler) Decide(c *fiber.Ctx) error {
	reviewerID, err := principal.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "Invalid report id")
	}

	var req dto.DecideReportRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	report, err := h.reportService.Decide(c.UserContext(), id, reviewerID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(data(report))
}
