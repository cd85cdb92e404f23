// file: internals/features/attendance/records/export/summary_excel.go
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"kantorku_backend/internals/features/attendance/records/service"
)

const (
	SheetRekap  = "Rekap"
	SheetDetail = "Detail"
)

var detailHeaders = []string{
	"No", "ID Karyawan", "Nama", "Departemen", "Jam Masuk", "Jam Keluar", "Durasi (menit)", "Status", "Metode", "Terlambat",
}

// BuildDailySummary: workbook 2 sheet (rekap angka + detail per record).
func BuildDailySummary(sum *service.DailySummary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetRekap); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetDetail); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	/* ---------- rekap ---------- */
	f.SetCellValue(SheetRekap, "A1", "REKAP KEHADIRAN HARIAN")
	f.SetCellValue(SheetRekap, "A2", "Tanggal")
	f.SetCellValue(SheetRekap, "B2", sum.Date)
	f.SetCellValue(SheetRekap, "A3", "Batas terlambat")
	f.SetCellValue(SheetRekap, "B3", sum.LateCutoff)

	f.SetCellValue(SheetRekap, "A5", "Metrik")
	f.SetCellValue(SheetRekap, "B5", "Nilai")
	f.SetCellStyle(SheetRekap, "A5", "B5", headerStyle)

	metrics := [][2]any{
		{"Total karyawan", sum.TotalEmployees},
		{"Hadir", sum.Present},
		{"Tidak hadir", sum.Absent},
		{"Terlambat", sum.Late},
		{"Tepat waktu", sum.OnTime},
		{"Sudah pulang", sum.CheckedOut},
		{"Masih bekerja", sum.StillWorking},
	}
	for i, m := range metrics {
		row := 6 + i
		f.SetCellValue(SheetRekap, fmt.Sprintf("A%d", row), m[0])
		f.SetCellValue(SheetRekap, fmt.Sprintf("B%d", row), m[1])
	}
	f.SetColWidth(SheetRekap, "A", "A", 22)
	f.SetColWidth(SheetRekap, "B", "B", 14)

	/* ---------- detail ---------- */
	for i, h := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetDetail, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(detailHeaders), 1)
	f.SetCellStyle(SheetDetail, "A1", lastHeader, headerStyle)

	for i, e := range sum.Records {
		row := i + 2
		timeOut, duration, dept := "-", "-", "-"
		if e.AttendanceTimeOut != nil {
			timeOut = *e.AttendanceTimeOut
		}
		if e.AttendanceDuration != nil {
			duration = fmt.Sprintf("%d", *e.AttendanceDuration)
		}
		if e.EmployeeDepartment != nil {
			dept = *e.EmployeeDepartment
		}
		late := "Tidak"
		if e.IsLate {
			late = "Ya"
		}
		values := []any{
			i + 1, e.AttendanceEmployeeID, e.EmployeeName, dept,
			e.AttendanceTimeIn, timeOut, duration, e.AttendanceStatus, e.AttendanceCheckInMethod, late,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetDetail, cell, &values); err != nil {
			return nil, err
		}
	}
	f.SetColWidth(SheetDetail, "A", "B", 12)
	f.SetColWidth(SheetDetail, "C", "D", 24)
	f.SetColWidth(SheetDetail, "E", "J", 14)

	return f, nil
}

// WriteDailySummary: tulis XLSX ke w (response body / file).
func WriteDailySummary(w io.Writer, sum *service.DailySummary) error {
	f, err := BuildDailySummary(sum)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func FileName(date string) string {
	return fmt.Sprintf("kehadiran_%s.xlsx", date)
}
