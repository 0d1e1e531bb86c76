package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jagakampung-backend/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "rahasia"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsFor(id uint, role, ward string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":   id,
		"email":     "budi@kampung.id",
		"role":      role,
		"ward_unit": ward,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Auth(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": CurrentUserID(c), "role": CurrentRole(c), "ward": CurrentWardUnit(c)})
	})
	app.Get("/admin", Auth(secret), Role(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/ward/:ward", Auth(secret), WardScope("ward"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func call(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuth(t *testing.T) {
	app := newApp()

	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(7, model.RoleUser, "01"))
	assert.Equal(t, fiber.StatusOK, call(t, app, "/me", valid))

	tests := []struct {
		name  string
		token string
	}{
		{"tanpa token", ""},
		{"token rusak", "bukan.token.jwt"},
		{"secret lain", sign(t, jwt.SigningMethodHS256, []byte("lain"), claimsFor(7, model.RoleUser, "01"))},
		{"kadaluwarsa", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Minute).Unix()})},
		{"tanpa user_id", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": model.RoleAdmin})},
		{"algoritma none", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(7, model.RoleAdmin, ""))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusUnauthorized, call(t, app, "/me", tt.token))
		})
	}
}

func TestRole(t *testing.T) {
	app := newApp()

	admin := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(1, model.RoleAdmin, ""))
	user := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(2, model.RoleUser, "01"))
	noRole := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(3, "", "01"))

	assert.Equal(t, fiber.StatusNoContent, call(t, app, "/admin", admin))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/admin", user))
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/admin", noRole))
}

func TestWardScope(t *testing.T) {
	app := newApp()

	admin := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(1, model.RoleAdmin, ""))
	user := sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor(2, model.RoleUser, "01"))

	assert.Equal(t, fiber.StatusNoContent, call(t, app, "/ward/04", admin))
	assert.Equal(t, fiber.StatusNoContent, call(t, app, "/ward/01", user))
	assert.Equal(t, fiber.StatusNoContent, call(t, app, "/ward/1", user), "kode RT dinormalisasi")
	assert.Equal(t, fiber.StatusForbidden, call(t, app, "/ward/02", user))
}
