package model

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// WardUnits adalah daftar kode RT yang dilayani.
var WardUnits = []string{"01", "02", "03", "04", "05", "06"}

// Ward menyimpan data RT beserta titik pos ronda (opsional).
type Ward struct {
	gorm.Model
	Code        string   `json:"code" gorm:"size:2;uniqueIndex;not null"`
	Name        string   `json:"name"`
	Head        string   `json:"head"` // Ketua RT
	Address     string   `json:"address"`
	IsActive    bool     `json:"is_active" gorm:"default:true"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	RadiusMeter float64  `json:"radius_meter"`
}

func (w *Ward) HasPost() bool {
	return w.Latitude != nil && w.Longitude != nil
}

// NormalizeWardUnit mengubah "4", " 04 ", atau "RT 04" menjadi "04". Input non-angka dikembalikan apa adanya.
func NormalizeWardUnit(code string) string {
	code = strings.TrimSpace(code)
	if len(code) > 2 && strings.EqualFold(code[:2], "RT") {
		code = strings.TrimLeft(code[2:], " .-")
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 || n > 99 {
		return code
	}
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func IsValidWardUnit(code string) bool {
	for _, w := range WardUnits {
		if w == code {
			return true
		}
	}
	return false
}
