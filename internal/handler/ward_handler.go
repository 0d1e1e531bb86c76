package handler

import (
	"jagakampung-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type WardHandler struct {
	repo repository.WardRepository
}

func NewWardHandler(repo repository.WardRepository) *WardHandler {
	return &WardHandler{repo: repo}
}

// GET /api/wards
func (h *WardHandler) GetAll(c *fiber.Ctx) error {
	wards, err := h.repo.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": wards})
}
