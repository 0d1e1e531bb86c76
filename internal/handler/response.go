package handler

import (
	"errors"
	"strconv"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/logger"
	"jagakampung-backend/internal/repository"
	"jagakampung-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError memetakan error usecase ke status HTTP dengan bentuk {"error": ...}.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body := fiber.Map{"error": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		switch appErr.Kind {
		case apperror.KindValidation:
			return c.Status(fiber.StatusBadRequest).JSON(body)
		case apperror.KindDuplicate:
			return c.Status(fiber.StatusConflict).JSON(body)
		case apperror.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(body)
		case apperror.KindDependency:
			logger.Get().WithError(err).WithField("path", c.Path()).Warn("Layanan pendukung gagal")
			return c.Status(fiber.StatusBadGateway).JSON(body)
		}
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, usecase.ErrAccountBanned), errors.Is(err, usecase.ErrAccountPending):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrStaleRoster):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Jadwal telah diubah oleh admin lain, silakan muat ulang"})
	}

	logger.Get().WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Kesalahan internal")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Terjadi kesalahan pada server"})
}

// paramID membaca parameter route numerik; nilai tidak valid menjadi error Validation.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(name, "ID tidak valid")
	}
	return uint(id), nil
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Data tidak valid"})
}
