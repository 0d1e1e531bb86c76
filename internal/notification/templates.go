package notification

import (
	"fmt"
	"time"

	"jagakampung-backend/internal/model"
)

var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func MonthName(m int) string {
	if m < 1 || m > 12 {
		return fmt.Sprint(m)
	}
	return monthNames[m-1]
}

// NewAttendance dikirim ke admin setiap ada absensi masuk.
func NewAttendance(residentName string, e *model.AttendanceEvent) Message {
	category := model.CategorySuccess
	if e.Presence != model.PresencePresent {
		category = model.CategoryWarning
	}
	return Message{
		Category: category,
		Title:    "Absensi Baru",
		Body:     fmt.Sprintf("%s melakukan absensi %s dengan status: %s", residentName, e.Kind, e.Presence),
		Link:     "/attendances",
		Metadata: map[string]interface{}{
			"attendance_id": e.ID,
			"ward_unit":     e.WardUnit,
			"kind":          e.Kind,
		},
	}
}

// AttendanceDecided dikirim ke warga pemilik absensi.
func AttendanceDecided(e *model.AttendanceEvent, approved bool) Message {
	category, title, verb := model.CategorySuccess, "Absensi Disetujui", "disetujui"
	if !approved {
		category, title, verb = model.CategoryError, "Absensi Ditolak", "ditolak"
	}
	return Message{
		Category: category,
		Title:    title,
		Body:     fmt.Sprintf("Absensi Anda telah %s oleh admin", verb),
		Link:     "/history",
		Metadata: map[string]interface{}{
			"attendance_id": e.ID,
			"approved":      approved,
		},
	}
}

// AddedToRoster dikirim ke email petugas yang baru ditambahkan ke jadwal.
func AddedToRoster(unit *model.RosterUnit, a *model.DutyAssignment) Message {
	return Message{
		Category: model.CategoryInfo,
		Title:    "Jadwal Ronda",
		Body: fmt.Sprintf("Anda telah ditambahkan ke jadwal ronda\nRT %s pada %s, %02d/%02d/%d",
			unit.WardUnit, a.Weekday, a.Day, unit.Month, unit.Year),
		Link: "/schedule",
		Metadata: map[string]interface{}{
			"roster_unit_id": unit.ID,
			"assignment_id":  a.ID,
		},
	}
}

// RosterUpdated dikirim ke email petugas yang datanya diubah.
func RosterUpdated(unit *model.RosterUnit, now time.Time) Message {
	return Message{
		Category: model.CategoryWarning,
		Title:    "Jadwal Diperbarui",
		Body: fmt.Sprintf("Jadwal ronda telah diperbarui\nRT %s - %s %d\nDiperbarui pada %s, %s",
			unit.WardUnit, MonthName(unit.Month), unit.Year, model.WeekdayName(now.Weekday()), now.Format("02/01/2006")),
		Link: "/schedule",
		Metadata: map[string]interface{}{
			"roster_unit_id": unit.ID,
		},
	}
}
