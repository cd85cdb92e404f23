// file: internals/features/attendance/records/service/summary.go
package service

import (
	"context"
	"fmt"
	"time"

	"kantorku_backend/internals/features/attendance/records/model"
	empModel "kantorku_backend/internals/features/employees/employees/model"
	"kantorku_backend/internals/helpers/dbtime"
)

type DailySummary struct {
	Date           string         `json:"date"`
	LateCutoff     string         `json:"late_cutoff"`
	TotalEmployees int            `json:"total_employees"`
	Present        int            `json:"present"`
	Absent         int            `json:"absent"`
	Late           int            `json:"late"`
	OnTime         int            `json:"on_time"`
	CheckedOut     int            `json:"checked_out"`
	StillWorking   int            `json:"still_working"`
	Records        []SummaryEntry `json:"records"`
}

// SummaryEntry: record + identitas karyawan.
type SummaryEntry struct {
	model.AttendanceRecordModel
	EmployeeName       string  `json:"employee_name"`
	EmployeeEmail      *string `json:"employee_email,omitempty"`
	EmployeeDepartment *string `json:"employee_department,omitempty"`
	IsLate             bool    `json:"is_late"`
}

// BuildDailySummary: fungsi murni. Record milik karyawan non-aktif (tidak ada di roster) diabaikan.
// loc = zona kantor; timestamp ber-offset dikonversi ke sana sebelum dibandingkan dengan cutoff.
func BuildDailySummary(today string, roster []empModel.EmployeeModel, records []model.AttendanceRecordModel, cutoff dbtime.Tod, loc *time.Location) DailySummary {
	byID := make(map[int64]*empModel.EmployeeModel, len(roster))
	for i := range roster {
		byID[roster[i].EmployeeID] = &roster[i]
	}

	out := DailySummary{
		Date:           today,
		LateCutoff:     cutoff.String(),
		TotalEmployees: len(roster),
		Records:        make([]SummaryEntry, 0, len(records)),
	}

	for _, r := range records {
		if r.AttendanceDate != today {
			continue
		}
		emp, ok := byID[r.AttendanceEmployeeID]
		if !ok {
			continue
		}
		late := IsLate(r.AttendanceTimeIn, cutoff, loc)
		if late {
			out.Late++
		} else {
			out.OnTime++
		}
		if r.AttendanceTimeOut != nil {
			out.CheckedOut++
		}
		out.Records = append(out.Records, SummaryEntry{
			AttendanceRecordModel: r,
			EmployeeName:          emp.EmployeeName,
			EmployeeEmail:         emp.EmployeeEmail,
			EmployeeDepartment:    emp.EmployeeDepartment,
			IsLate:                late,
		})
	}

	out.Present = len(out.Records)
	out.Absent = out.TotalEmployees - out.Present
	if out.Absent < 0 {
		out.Absent = 0
	}
	out.StillWorking = out.Present - out.CheckedOut
	return out
}

type SummaryService struct {
	Store  Store
	Roster Roster
	Clock  dbtime.Clock
	Cutoff dbtime.Tod
}

func NewSummaryService(store Store, roster Roster, clock dbtime.Clock, cutoff dbtime.Tod) *SummaryService {
	return &SummaryService{Store: store, Roster: roster, Clock: clock, Cutoff: cutoff}
}

func (s *SummaryService) Today(ctx context.Context) (*DailySummary, error) {
	return s.ForDate(ctx, dbtime.Today(s.Clock))
}

func (s *SummaryService) ForDate(ctx context.Context, date string) (*DailySummary, error) {
	roster, err := s.Roster.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	records, err := s.Store.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load attendance %s: %w", date, err)
	}
	sum := BuildDailySummary(date, roster, records, s.Cutoff, s.Clock.Now().Location())
	return &sum, nil
}
