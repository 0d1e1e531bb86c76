package usecase

import (
	"context"
	"errors"
	"time"

	"jagakampung-backend/internal/apperror"
	"jagakampung-backend/internal/model"
	"jagakampung-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("Email atau password salah")
	ErrAccountBanned      = errors.New("Akun Anda telah diblokir. Hubungi admin")
	ErrAccountPending     = errors.New("Akun Anda belum diaktifkan oleh admin")
)

const tokenTTL = 24 * time.Hour

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthUsecase struct {
	residents repository.ResidentRepository
	secret    []byte
	now       func() time.Time
}

func NewAuthUsecase(residents repository.ResidentRepository, secret string) *AuthUsecase {
	return &AuthUsecase{residents: residents, secret: []byte(secret), now: time.Now}
}

// Login mencocokkan password dengan hash bcrypt lalu menerbitkan JWT 24 jam.
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (string, *model.Resident, error) {
	in.Email = model.NormalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return "", nil, err
	}

	resident, err := u.residents.FindByEmail(ctx, in.Email)
	if apperror.Is(err, apperror.KindNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(resident.Password), []byte(in.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	switch resident.Status {
	case model.StatusBanned:
		return "", nil, ErrAccountBanned
	case model.StatusPending:
		return "", nil, ErrAccountPending
	}

	token, err := u.IssueToken(resident)
	if err != nil {
		return "", nil, err
	}
	return token, resident, nil
}

func (u *AuthUsecase) IssueToken(resident *model.Resident) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   resident.ID,
		"email":     resident.Email,
		"role":      resident.Role,
		"ward_unit": resident.WardUnit,
		"exp":       u.now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}

func (u *AuthUsecase) Me(ctx context.Context, residentID uint) (*model.Resident, error) {
	return u.residents.FindByID(ctx, residentID)
}
