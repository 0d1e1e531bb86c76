package middleware

import (
	"jagakampung-backend/internal/model"

	"github.com/gofiber/fiber/v2"
)

// WardScope membatasi warga biasa ke data RT-nya sendiri. Admin bebas mengakses semua RT.
// param adalah nama parameter route yang berisi kode RT.
func WardScope(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Ambil Role user dari Context (Diset di Auth middleware)
		userRole, ok := c.Locals("role").(string)
		if !ok || userRole == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Akses ditolak: Role tidak valid"})
		}

		// 2. Admin bypass
		if userRole == model.RoleAdmin {
			return c.Next()
		}

		// 3. Bandingkan RT di URL dengan RT warga
		requested := model.NormalizeWardUnit(c.Params(param))
		if requested == "" || requested != model.NormalizeWardUnit(CurrentWardUnit(c)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Akses ditolak: Anda hanya dapat melihat data RT sendiri"})
		}

		return c.Next()
	}
}
