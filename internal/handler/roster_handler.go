package handler

import (
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/repository"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type RosterHandler struct {
	rosters  *usecase.RosterUsecase
	partners *usecase.PartnerUsecase
}

func NewRosterHandler(rosters *usecase.RosterUsecase, partners *usecase.PartnerUsecase) *RosterHandler {
	return &RosterHandler{rosters: rosters, partners: partners}
}

// POST /api/rosters
func (h *RosterHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateUnitInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	unit, err := h.rosters.CreateUnit(c.UserContext(), req, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Jadwal berhasil dibuat",
		"data":    unit,
	})
}

// GET /api/rosters?ward_unit=01&month=3&year=2026
func (h *RosterHandler) GetAll(c *fiber.Ctx) error {
	filter := repository.RosterFilter{
		WardUnit: c.Query("ward_unit"),
		Month:    c.QueryInt("month"),
		Year:     c.QueryInt("year"),
	}
	units, err := h.rosters.ListUnits(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": units})
}

// GET /api/rosters/month/:ward/:year/:month
func (h *RosterHandler) GetByMonth(c *fiber.Ctx) error {
	year, err := paramID(c, "year")
	if err != nil {
		return respondError(c, err)
	}
	month, err := paramID(c, "month")
	if err != nil {
		return respondError(c, err)
	}
	unit, err := h.rosters.FindUnit(c.UserContext(), c.Params("ward"), int(month), int(year))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": unit})
}

// GET /api/rosters/:id
func (h *RosterHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	unit, err := h.rosters.GetUnit(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": unit})
}

// DELETE /api/rosters/:id
func (h *RosterHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.rosters.DeleteUnit(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Jadwal berhasil dihapus"})
}

// POST /api/rosters/:id/assignments
func (h *RosterHandler) AddAssignment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req usecase.AssignmentInput
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	unit, err := h.rosters.AddAssignment(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Petugas berhasil ditambahkan",
		"data":    unit,
	})
}

// PUT /api/rosters/:id/assignments/:aid
func (h *RosterHandler) UpdateAssignment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req usecase.AssignmentPatch
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	unit, err := h.rosters.UpdateAssignment(c.UserContext(), id, c.Params("aid"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Petugas berhasil diperbarui",
		"data":    unit,
	})
}

// DELETE /api/rosters/:id/assignments/:aid
func (h *RosterHandler) RemoveAssignment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	unit, err := h.rosters.RemoveAssignment(c.UserContext(), id, c.Params("aid"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Petugas berhasil dihapus",
		"data":    unit,
	})
}

// GET /api/rosters/today-partners
func (h *RosterHandler) TodayPartners(c *fiber.Ctx) error {
	result, err := h.partners.FindTodaysPartners(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": result.Message,
		"data":    result,
	})
}
