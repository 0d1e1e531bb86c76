package usecase

import (
	"context"
	"testing"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/repository/repotest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	store := repotest.NewStore()
	budi := store.AddResident(model.Resident{Name: "Budi", Email: "budi@kampung.id", Password: hashed(t, "ronda123"), WardUnit: "03"})
	store.AddResident(model.Resident{Name: "Rudi", Email: "rudi@kampung.id", Password: hashed(t, "ronda123"), Status: model.StatusBanned})
	store.AddResident(model.Resident{Name: "Tono", Email: "tono@kampung.id", Password: hashed(t, "ronda123"), Status: model.StatusPending})

	auth := NewAuthUsecase(store.Residents(), "rahasia")
	ctx := context.Background()

	token, resident, err := auth.Login(ctx, LoginInput{Email: " BUDI@kampung.id", Password: "ronda123"})
	require.NoError(t, err)
	assert.Equal(t, budi.ID, resident.ID)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte("rahasia"), nil })
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, float64(budi.ID), claims["user_id"])
	assert.Equal(t, model.RoleUser, claims["role"])
	assert.Equal(t, "03", claims["ward_unit"])

	_, _, err = auth.Login(ctx, LoginInput{Email: "budi@kampung.id", Password: "salah"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, LoginInput{Email: "siapa@kampung.id", Password: "ronda123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, LoginInput{Email: "rudi@kampung.id", Password: "ronda123"})
	assert.ErrorIs(t, err, ErrAccountBanned)

	_, _, err = auth.Login(ctx, LoginInput{Email: "tono@kampung.id", Password: "ronda123"})
	assert.ErrorIs(t, err, ErrAccountPending)

	_, _, err = auth.Login(ctx, LoginInput{Email: "bukan-email", Password: "x"})
	requireKind(t, err, apperror.KindValidation)

	me, err := auth.Me(ctx, budi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", me.Name)
}
