package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Jenis absensi.
const (
	KindCheckIn  = "masuk"
	KindCheckOut = "pulang"
	KindExcuse   = "izin"
)

// Kelas kehadiran, diturunkan 1:1 dari jenis.
const (
	PresencePresent = "hadir"
	PresenceExcused = "izin"
)

// Status persetujuan (approved nil/true/false).
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

func IsValidKind(kind string) bool {
	return kind == KindCheckIn || kind == KindCheckOut || kind == KindExcuse
}

// PresenceFor mengembalikan kelas kehadiran untuk jenis absensi yang valid.
func PresenceFor(kind string) string {
	if kind == KindExcuse {
		return PresenceExcused
	}
	return PresencePresent
}

// AttendanceEvent adalah satu catatan absensi ronda.
type AttendanceEvent struct {
	gorm.Model
	ResidentID   uint      `json:"resident_id" gorm:"not null;index:idx_attendance_resident_date,priority:1"`
	RosterUnitID *uint     `json:"roster_unit_id" gorm:"index"`
	WardUnit     string    `json:"ward_unit" gorm:"size:2;not null;index:idx_attendance_ward_date,priority:1"`
	Date         time.Time `json:"date" gorm:"not null;index:idx_attendance_resident_date,priority:2;index:idx_attendance_ward_date,priority:2"`
	Kind         string    `json:"kind" gorm:"size:10;not null"`
	Presence     string    `json:"presence" gorm:"size:10;not null"`

	PhotoURL *string `json:"photo_url"`
	PhotoRef *string `json:"-"`
	Reason   *string `json:"reason"`

	Approved   *bool      `json:"approved"`
	ApprovedBy *uint      `json:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at"`

	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	DistanceMeters *float64 `json:"distance_meters"`

	// Terisi selama pending/approved, NULL setelah ditolak. Unique index menolak
	// dua absensi aktif untuk (warga, jadwal, hari, jenis) yang sama.
	ActiveSlot *string `json:"-" gorm:"size:120;uniqueIndex"`

	Resident   *Resident   `json:"resident,omitempty" gorm:"foreignKey:ResidentID"`
	RosterUnit *RosterUnit `json:"roster_unit,omitempty" gorm:"foreignKey:RosterUnitID;constraint:OnDelete:SET NULL"`
	Approver   *Resident   `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
}

func (e *AttendanceEvent) ApprovalState() string {
	switch {
	case e.Approved == nil:
		return ApprovalPending
	case *e.Approved:
		return ApprovalApproved
	default:
		return ApprovalRejected
	}
}

// SlotKey membentuk kunci slot aktif; day dalam format yyyy-mm-dd zona waktu RT.
func SlotKey(residentID, rosterUnitID uint, day, kind string) string {
	return fmt.Sprintf("%d:%d:%s:%s", residentID, rosterUnitID, day, kind)
}

// ApprovalDecision adalah riwayat setiap keputusan admin atas satu absensi.
type ApprovalDecision struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	AttendanceEventID uint      `json:"attendance_event_id" gorm:"index;not null"`
	Approved          bool      `json:"approved"`
	DecidedBy         uint      `json:"decided_by"`
	DecidedAt         time.Time `json:"decided_at"`
}
