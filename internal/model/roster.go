package model

import "time"

// Nama hari yang diterima untuk DutyAssignment.Weekday.
var Weekdays = []string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// RosterUnit adalah jadwal ronda bulanan satu RT. Unik per (ward_unit, month, year).
type RosterUnit struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	WardUnit    string           `json:"ward_unit" gorm:"size:2;not null;uniqueIndex:idx_roster_ward_month_year"`
	Month       int              `json:"month" gorm:"not null;uniqueIndex:idx_roster_ward_month_year"`
	Year        int              `json:"year" gorm:"not null;uniqueIndex:idx_roster_ward_month_year"`
	CreatedBy   uint             `json:"created_by"`
	Version     int              `json:"version" gorm:"not null;default:1"`
	Assignments []DutyAssignment `json:"assignments" gorm:"foreignKey:RosterUnitID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AssignmentsOn mengembalikan petugas pada tanggal tertentu, urut sesuai posisi.
func (u *RosterUnit) AssignmentsOn(day int) []DutyAssignment {
	var out []DutyAssignment
	for _, a := range u.Assignments {
		if a.Day == day {
			out = append(out, a)
		}
	}
	return out
}

func (u *RosterUnit) Assignment(id string) (*DutyAssignment, bool) {
	for i := range u.Assignments {
		if u.Assignments[i].ID == id {
			return &u.Assignments[i], true
		}
	}
	return nil, false
}

// DutyAssignment adalah satu baris petugas dalam jadwal.
type DutyAssignment struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	RosterUnitID uint   `json:"roster_unit_id" gorm:"index;not null"`
	Position     int    `json:"-" gorm:"not null;default:0"`
	GuardName    string `json:"guard_name" gorm:"size:100;not null"`
	Day          int    `json:"day" gorm:"not null"`
	Weekday      string `json:"weekday" gorm:"size:10;not null"`
	Phone        string `json:"phone" gorm:"size:30"`
	Notes        string `json:"notes"`
	Email        string `json:"email" gorm:"size:191;index"`
}

func IsValidWeekday(name string) bool {
	for _, w := range Weekdays {
		if w == name {
			return true
		}
	}
	return false
}

// WeekdayName memetakan time.Weekday ke nama hari (Minggu untuk Sunday).
func WeekdayName(d time.Weekday) string {
	if d == time.Sunday {
		return Weekdays[6]
	}
	return Weekdays[int(d)-1]
}

// DaysIn mengembalikan jumlah hari pada bulan tersebut.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DeriveWeekday menghitung nama hari dari tanggal. ok=false jika day melebihi panjang bulan.
func DeriveWeekday(year, month, day int) (string, bool) {
	if day < 1 || day > DaysIn(year, month) {
		return "", false
	}
	return WeekdayName(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday()), true
}
