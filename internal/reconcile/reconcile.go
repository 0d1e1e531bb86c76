// Package reconcile melipat event absensi mentah menjadi rekap harian per warga
// lalu mengelompokkannya ke bucket waktu (minggu, bulan, tahun) atau RT.
//
// Semua laporan memakai dua tahap yang sama: kelompokkan per (warga, hari), klasifikasikan,
// baru kelompokkan ulang per bucket. Mengelompokkan event langsung per bucket akan
// menghitung ganda warga yang absen masuk dan pulang di hari yang sama.
package reconcile

import (
	"sort"
	"time"

	"jagakampung-backend/internal/model"
)

const DayLayout = "2006-01-02"

type Class string

const (
	ClassComplete   Class = "complete"
	ClassExcused    Class = "excused"
	ClassIncomplete Class = "incomplete"
	ClassAbsent     Class = "absent"
)

// Event adalah proyeksi AttendanceEvent yang dibutuhkan untuk rekap.
type Event struct {
	ID           uint
	ResidentID   uint
	ResidentName string
	WardUnit     string
	Date         time.Time
	Kind         string
	Presence     string
	Reason       *string
	Approved     *bool
}

// FromModel memproyeksikan event dari database. Nama warga diambil dari relasi jika di-preload.
func FromModel(events []model.AttendanceEvent) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		ev := Event{
			ID:         e.ID,
			ResidentID: e.ResidentID,
			WardUnit:   e.WardUnit,
			Date:       e.Date,
			Kind:       e.Kind,
			Presence:   e.Presence,
			Reason:     e.Reason,
			Approved:   e.Approved,
		}
		if e.Resident != nil {
			ev.ResidentName = e.Resident.Name
		}
		out = append(out, ev)
	}
	return out
}

// DayRecord adalah rekap satu warga pada satu hari kalender (zona waktu RT).
type DayRecord struct {
	ResidentID   uint       `json:"resident_id"`
	ResidentName string     `json:"resident_name"`
	WardUnit     string     `json:"ward_unit"`
	Day          string     `json:"day"`
	Date         time.Time  `json:"-"`
	RecordCount  int        `json:"record_count"`
	HasPresent   bool       `json:"has_present"`
	HasExcuse    bool       `json:"has_excuse"`
	Class        Class      `json:"class"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Reason       *string    `json:"reason"`
	Approved     bool       `json:"approved"`
	EventIDs     []uint     `json:"event_ids"`
}

// Classify: complete jika ada >= 2 event dan salah satunya hadir; selain itu excused
// jika ada izin; selain itu incomplete.
func Classify(recordCount int, hasPresent, hasExcuse bool) Class {
	switch {
	case recordCount >= 2 && hasPresent:
		return ClassComplete
	case hasExcuse:
		return ClassExcused
	case recordCount == 0:
		return ClassAbsent
	default:
		return ClassIncomplete
	}
}

type dayKey struct {
	resident uint
	day      string
}

// Reconcile mengelompokkan event per (warga, hari) dengan hari dihitung pada loc.
// Hasil diurutkan per hari lalu per warga.
func Reconcile(events []Event, loc *time.Location) []DayRecord {
	if loc == nil {
		loc = time.UTC
	}

	index := make(map[dayKey]int)
	var records []DayRecord

	for _, e := range events {
		local := e.Date.In(loc)
		k := dayKey{resident: e.ResidentID, day: local.Format(DayLayout)}

		i, ok := index[k]
		if !ok {
			y, m, d := local.Date()
			records = append(records, DayRecord{
				ResidentID:   e.ResidentID,
				ResidentName: e.ResidentName,
				WardUnit:     e.WardUnit,
				Day:          k.day,
				Date:         time.Date(y, m, d, 0, 0, 0, 0, loc),
			})
			i = len(records) - 1
			index[k] = i
		}
		r := &records[i]

		r.RecordCount++
		r.EventIDs = append(r.EventIDs, e.ID)
		if r.ResidentName == "" {
			r.ResidentName = e.ResidentName
		}
		if e.Presence == model.PresencePresent {
			r.HasPresent = true
		}
		if e.Approved != nil && *e.Approved {
			r.Approved = true
		}

		t := local
		switch e.Kind {
		case model.KindExcuse:
			r.HasExcuse = true
			if e.Reason != nil && r.Reason == nil {
				r.Reason = e.Reason
			}
		case model.KindCheckIn:
			if r.CheckIn == nil || t.Before(*r.CheckIn) {
				r.CheckIn = &t
			}
		case model.KindCheckOut:
			if r.CheckOut == nil || t.After(*r.CheckOut) {
				r.CheckOut = &t
			}
		}
	}

	for i := range records {
		r := &records[i]
		r.Class = Classify(r.RecordCount, r.HasPresent, r.HasExcuse)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Day != records[j].Day {
			return records[i].Day < records[j].Day
		}
		return records[i].ResidentID < records[j].ResidentID
	})
	return records
}

// ScheduledDay adalah hari di mana seorang warga terjadwal ronda.
type ScheduledDay struct {
	ResidentID   uint
	ResidentName string
	WardUnit     string
	Date         time.Time
}

// MarkAbsent menambahkan record absent untuk hari terjadwal yang tidak punya event sama sekali.
func MarkAbsent(records []DayRecord, scheduled []ScheduledDay, loc *time.Location) []DayRecord {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[dayKey]bool, len(records))
	for _, r := range records {
		seen[dayKey{r.ResidentID, r.Day}] = true
	}

	out := append([]DayRecord(nil), records...)
	for _, s := range scheduled {
		local := s.Date.In(loc)
		k := dayKey{s.ResidentID, local.Format(DayLayout)}
		if seen[k] {
			continue
		}
		seen[k] = true
		y, m, d := local.Date()
		out = append(out, DayRecord{
			ResidentID:   s.ResidentID,
			ResidentName: s.ResidentName,
			WardUnit:     s.WardUnit,
			Day:          k.day,
			Date:         time.Date(y, m, d, 0, 0, 0, 0, loc),
			Class:        ClassAbsent,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].ResidentID < out[j].ResidentID
	})
	return out
}
