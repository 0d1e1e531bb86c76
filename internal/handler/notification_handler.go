package handler

import (
	"jagakampung-backend/internal/middleware"
	"jagakampung-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	repo repository.NotificationRepository
}

func NewNotificationHandler(repo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

// GET /api/notifications?unread=true&limit=50
func (h *NotificationHandler) GetMine(c *fiber.Ctx) error {
	list, err := h.repo.ListByResident(c.UserContext(), middleware.CurrentUserID(c), c.QueryBool("unread"), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": list})
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.repo.CountUnread(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	n, err := h.repo.MarkRead(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifikasi ditandai sudah dibaca", "data": n})
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	count, err := h.repo.MarkAllRead(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Semua notifikasi ditandai sudah dibaca", "count": count})
}

// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.repo.Delete(c.UserContext(), middleware.CurrentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notifikasi berhasil dihapus"})
}

// DELETE /api/notifications
func (h *NotificationHandler) DeleteAll(c *fiber.Ctx) error {
	count, err := h.repo.DeleteAll(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Semua notifikasi berhasil dihapus", "count": count})
}
