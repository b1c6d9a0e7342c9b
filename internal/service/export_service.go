package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nordwerk/shiftplan-api/internal/models"
	"github.com/nordwerk/shiftplan-api/internal/planner"
	"github.com/nordwerk/shiftplan-api/pkg/export"
	appErrors "github.com/nordwerk/shiftplan-api/pkg/errors"
)

// Export formats supported for weekly plans.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type exportPlanSource interface {
	FindByID(ctx context.Context, id string) (*models.ShiftPlan, error)
	ListEntries(ctx context.Context, planID string) ([]models.ShiftEntry, error)
}

type exportEmployeeSource interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

type tableRenderer interface {
	Render(data export.Table) ([]byte, error)
}

type titledTableRenderer interface {
	Render(data export.Table, title string) ([]byte, error)
}

// ExportResult carries a rendered export.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders weekly plans as downloadable tables: one column per
// day, one row per shift band.
type ExportService struct {
	plans     exportPlanSource
	employees exportEmployeeSource
	csv       tableRenderer
	pdf       titledTableRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(plans exportPlanSource, employees exportEmployeeSource, logger *zap.Logger, csv tableRenderer, pdf titledTableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{plans: plans, employees: employees, csv: csv, pdf: pdf, logger: logger}
}

// WeeklyPlan renders one plan in the requested format.
func (s *ExportService) WeeklyPlan(ctx context.Context, planID, format string) (*ExportResult, error) {
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	entries, err := s.plans.ListEntries(ctx, planID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan entries")
	}

	table := s.buildTable(ctx, plan, entries)
	title := plan.Name
	if title == "" {
		title = fmt.Sprintf("Shift plan %s", planner.DayKey(plan.WeekStart))
	}

	var payload []byte
	var contentType, ext string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(table)
		contentType, ext = "text/csv", "csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(table, title)
		contentType, ext = "application/pdf", "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("shiftplan_%s_%s.%s", planner.DayKey(plan.WeekStart), time.Now().UTC().Format("20060102_150405"), ext)
	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func (s *ExportService) buildTable(ctx context.Context, plan *models.ShiftPlan, entries []models.ShiftEntry) export.Table {
	headers := []string{"Shift"}
	days := make([]string, 0, 7)
	for d := plan.WeekStart; !d.After(plan.WeekEnd); d = d.AddDate(0, 0, 1) {
		key := planner.DayKey(d)
		days = append(days, key)
		headers = append(headers, fmt.Sprintf("%s %s", d.Weekday().String()[:3], key))
	}

	// day -> shift code -> names
	cells := map[string]map[string][]string{}
	names := map[string]string{}
	for _, e := range entries {
		key := planner.DayKey(e.Day)
		if cells[key] == nil {
			cells[key] = map[string][]string{}
		}
		cells[key][e.ShiftCode] = append(cells[key][e.ShiftCode], s.employeeName(ctx, names, e.EmployeeID))
	}

	rows := make([]map[string]string, 0, len(planner.ShiftTypes))
	for _, shift := range planner.ShiftTypes {
		window := shift.Window()
		row := map[string]string{
			"Shift": fmt.Sprintf("%s (%s-%s)", shift.Code(), window.Start, window.End),
		}
		for i, key := range days {
			row[headers[i+1]] = strings.Join(cells[key][shift.Code()], ", ")
		}
		rows = append(rows, row)
	}
	return export.Table{Headers: headers, Rows: rows}
}

func (s *ExportService) employeeName(ctx context.Context, cache map[string]string, employeeID string) string {
	if name, ok := cache[employeeID]; ok {
		return name
	}
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		s.logger.Warn("export falls back to employee id", zap.String("employee_id", employeeID), zap.Error(err))
		cache[employeeID] = employeeID
		return employeeID
	}
	cache[employeeID] = employee.FullName()
	return employee.FullName()
}
