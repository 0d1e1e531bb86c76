// Package export menulis rekap absensi ronda ke file spreadsheet.
package export

import (
	"bytes"
	"fmt"

	"jagakampung-backend/internal/reconcile"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Absensi"

var headings = []string{"No", "Tanggal", "Nama", "RT", "Status", "Masuk", "Pulang", "Alasan", "Disetujui"}

// AttendanceWorkbook menghasilkan xlsx satu sheet: baris judul, header, lalu satu baris per (warga, hari).
func AttendanceWorkbook(rows []reconcile.ExportRow, title string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", "Rekap Absensi Ronda - "+title); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headings), 3)
	if err := f.SetCellStyle(sheetName, "A3", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, r := range rows {
		approved := "Belum"
		if r.Approved {
			approved = "Ya"
		}
		values := []interface{}{i + 1, r.Day, r.ResidentName, r.WardUnit, r.Status, r.CheckIn, r.CheckOut, r.Reason, approved}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+4)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheetName, "B", "C", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "H", "H", 30); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("gagal menulis xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
