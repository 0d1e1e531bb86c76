package reconcile

import "sort"

// ExportRow adalah satu baris (warga, hari) untuk ekspor spreadsheet.
type ExportRow struct {
	Day          string `json:"day"`
	ResidentName string `json:"resident_name"`
	WardUnit     string `json:"ward_unit"`
	Status       string `json:"status"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Reason       string `json:"reason"`
	Approved     bool   `json:"approved"`
}

// Flatten mengubah record harian menjadi baris ekspor, terbaru lebih dulu.
// Approved bernilai true jika salah satu event pembentuknya disetujui.
func Flatten(records []DayRecord) []ExportRow {
	rows := make([]ExportRow, 0, len(records))
	for _, r := range records {
		row := ExportRow{
			Day:          r.Day,
			ResidentName: r.ResidentName,
			WardUnit:     r.WardUnit,
			Status:       statusLabel(r.Class),
			Approved:     r.Approved,
		}
		if r.CheckIn != nil {
			row.CheckIn = r.CheckIn.Format("15:04")
		}
		if r.CheckOut != nil {
			row.CheckOut = r.CheckOut.Format("15:04")
		}
		if r.Reason != nil {
			row.Reason = *r.Reason
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Day > rows[j].Day })
	return rows
}

func statusLabel(c Class) string {
	switch c {
	case ClassComplete:
		return "Hadir"
	case ClassExcused:
		return "Izin"
	case ClassIncomplete:
		return "Tidak Lengkap"
	default:
		return "Tidak Hadir"
	}
}
