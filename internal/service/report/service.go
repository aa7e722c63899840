package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/report"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/xuri/excelize/v2"
)

// exportColumns is the shared column layout of both export formats.
var exportColumns = []string{
	"Date", "User ID", "Status", "Check-in Time", "Check-out Time", "Absence Reason", "Location",
}

const (
	timeLayout  = "15:04"
	absentValue = "N/A"
)

type ReportServiceImpl struct {
	repo     attendance.Repository
	userRepo user.UserRepository
}

func NewReportService(repo attendance.Repository, userRepo user.UserRepository) report.Service {
	return &ReportServiceImpl{repo: repo, userRepo: userRepo}
}

// ExportCSV implements report.Service. Quoting and escaping follow RFC 4180
// via encoding/csv, so reasons containing commas, quotes or newlines survive
// a round trip through any spreadsheet tool.
func (s *ReportServiceImpl) ExportCSV(ctx context.Context, identity user.Identity, filter attendance.Filter) ([]byte, error) {
	records, err := s.fetch(ctx, identity, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(exportRow(rec)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportExcel implements report.Service.
func (s *ReportServiceImpl) ExportExcel(ctx context.Context, identity user.Identity, filter attendance.Filter) ([]byte, error) {
	records, err := s.fetch(ctx, identity, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to map header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header cell: %w", err)
		}
	}

	for i, rec := range records {
		for col, value := range exportRow(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to map cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "G", 18); err != nil {
		return nil, fmt.Errorf("failed to set column widths: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// fetch authorizes, validates and runs the ledger query shared by both
// export formats.
func (s *ReportServiceImpl) fetch(ctx context.Context, identity user.Identity, filter attendance.Filter) ([]attendance.Record, error) {
	if identity.IsZero() {
		return nil, user.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return nil, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if filter.Department != nil && *filter.Department != "" {
		ids, err := s.userRepo.ListIDsByDepartment(ctx, *filter.Department)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve department filter: %w", err)
		}
		filter.UserIDs = ids
		filter.Department = nil
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return records, nil
}

func exportRow(rec attendance.Record) []string {
	return []string{
		rec.Date,
		rec.UserID,
		string(rec.Status),
		formatTime(rec.CheckInTime),
		formatTime(rec.CheckOutTime),
		formatReason(rec.AbsenceReason),
		formatLocation(rec.CheckInLocation),
	}
}

func formatTime(t *time.Time) string {
	if t == nil {
		return absentValue
	}
	return t.Format(timeLayout)
}

func formatReason(reason *string) string {
	if reason == nil {
		return absentValue
	}
	return *reason
}

func formatLocation(loc *attendance.GeoLocation) string {
	if loc == nil {
		return absentValue
	}
	return fmt.Sprintf("%.6f, %.6f", loc.Latitude, loc.Longitude)
}
