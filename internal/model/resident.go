package model

import (
	"strings"

	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	StatusActive  = "active"
	StatusBanned  = "banned"
	StatusPending = "pending"
)

// Resident adalah akun warga. Core hanya membaca id, RT, email, nama, dan foto.
type Resident struct {
	gorm.Model
	Name     string  `json:"name" gorm:"size:100;not null"`
	Email    string  `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Password string  `json:"-"`
	Phone    string  `json:"phone" gorm:"size:30"`
	WardUnit string  `json:"ward_unit" gorm:"size:2;index"`
	Role     string  `json:"role" gorm:"size:10;default:user"`
	Status   string  `json:"status" gorm:"size:10;default:active"`
	Photo    *string `json:"photo"`
}

// BeforeSave menyimpan email dalam huruf kecil supaya pencocokan jadwal tidak peka kapital.
func (r *Resident) BeforeSave(tx *gorm.DB) error {
	r.Email = NormalizeEmail(r.Email)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
