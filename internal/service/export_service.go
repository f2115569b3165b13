package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook sheet names
const (
	SheetRecords = "Records"
	SheetSummary = "Summary"
)

var recordsHeader = []interface{}{
	"Date", "Weight (kg)", "Height (cm)", "BMI", "Systolic (mmHg)", "Diastolic (mmHg)",
	"Heart Rate (bpm)", "Blood Sugar", "Temperature", "Note",
}

// ExportResult is either an uploaded object URL or the workbook itself
type ExportResult struct {
	Filename string
	URL      string
	Data     []byte
}

// ExportService renders health reports to spreadsheets
type ExportService struct {
	reports *ReportService
	files   domain.FileRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates a new export service. With nil files the
// workbook is returned for direct download.
func NewExportService(reports *ReportService, files domain.FileRepository, logger *zap.Logger) *ExportService {
	return &ExportService{reports: reports, files: files, logger: logger, now: time.Now}
}

// ExportHealthReport renders the user's health report over [start, end] and
// uploads it when storage is configured.
func (s *ExportService) ExportHealthReport(ctx context.Context, userID string, start, end *time.Time) (*ExportResult, error) {
	report, records, err := s.reports.HealthReportData(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	data, err := RenderHealthWorkbook(report, records)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("health-report-%s.xlsx", s.now().UTC().Format("20060102-150405"))
	result := &ExportResult{Filename: filename}

	if s.files == nil {
		result.Data = data
		return result, nil
	}

	key := fmt.Sprintf("exports/%s/%s-%s", userID, uuid.NewString(), filename)
	url, err := s.files.Upload(ctx, data, key, XLSXContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	s.logger.Info("health report exported",
		zap.String("user_id", userID),
		zap.String("key", key),
		zap.Int("records", report.Stats.TotalRecords),
	)
	result.URL = url
	return result, nil
}

// RenderHealthWorkbook writes one row per record to Records and the
// per-metric statistics to Summary.
func RenderHealthWorkbook(report *health.HealthReport, records []*domain.HealthRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRecords); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRecordsSheet(f, headerStyle, report, records); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, headerStyle, report); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRecordsSheet(f *excelize.File, headerStyle int, report *health.HealthReport, records []*domain.HealthRecord) error {
	if err := f.SetSheetRow(SheetRecords, "A1", &recordsHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(SheetRecords, "A1", "J1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	start, end := report.Stats.DateRange.Start, report.Stats.DateRange.End
	row := 2
	for _, r := range records {
		if r.CreatedAt.Before(start) || r.CreatedAt.After(end) {
			continue
		}

		values := []interface{}{
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			cellValue(r.Weight),
			cellValue(r.Height),
			nil,
			nil,
			nil,
			cellValue(r.HeartRate),
			cellValue(r.BloodSugar),
			cellValue(r.Temperature),
			r.Note,
		}
		if bmi, ok := health.ComputeBMI(r.Weight, r.Height); ok {
			values[3] = health.Round(bmi, 1)
		}
		if bp := r.BloodPressure; bp != nil {
			values[4], values[5] = bp.Systolic, bp.Diastolic
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetRecords, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	if err := f.SetColWidth(SheetRecords, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(SheetRecords, "J", "J", 40)
}

func writeSummarySheet(f *excelize.File, headerStyle int, report *health.HealthReport) error {
	stats := report.Stats
	rows := [][]interface{}{
		{"From", stats.DateRange.Start.UTC().Format("2006-01-02")},
		{"To", stats.DateRange.End.UTC().Format("2006-01-02")},
		{"Total records", stats.TotalRecords},
		{},
		{"Metric", "Min", "Max", "Average", "Latest"},
	}

	metrics := []struct {
		name  string
		stats *health.SeriesStats
	}{
		{"Weight (kg)", stats.Weight},
		{"Height (cm)", stats.Height},
		{"BMI", stats.BMI},
		{"Heart rate (bpm)", stats.HeartRate},
		{"Systolic (mmHg)", stats.Systolic},
		{"Diastolic (mmHg)", stats.Diastolic},
	}
	for _, m := range metrics {
		if m.stats == nil {
			rows = append(rows, []interface{}{m.name, "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []interface{}{m.name, m.stats.Min, m.stats.Max, m.stats.Avg, m.stats.Latest})
	}

	for i, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.SetCellStyle(SheetSummary, "A5", "E5", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 20)
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
