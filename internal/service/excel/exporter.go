package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/report"
)

const (
	SheetRawData   = "RawData"
	SheetSummary   = "Summary"
	SheetEmployees = "Employees"
	SheetLedger    = "Attendance"
)

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

// ExportOptions 导出选项
type ExportOptions struct {
	OnlyDeviations bool
	Progress       func(ProgressEvent)
}

// Exporter Excel导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportDeviations 导出偏差明细、类型汇总与员工遵守率
func (e *Exporter) ExportDeviations(records []model.DeviationRecord, opts ExportOptions) (*excelize.File, error) {
	f := excelize.NewFile()
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if opts.OnlyDeviations {
		filtered := make([]model.DeviationRecord, 0, len(records))
		for _, r := range records {
			if r.HasDeviation {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	reportProgress(opts.Progress, 5, "写入明细")

	// 明细
	if err := f.SetSheetName("Sheet1", SheetRawData); err != nil {
		_ = f.Close()
		return nil, err
	}
	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, []interface{}{
		"Employee_Name", "Date", "Shift_Type_Planned", "Shift_Type_Actual",
		"Planned_Category", "Actual_Category", "Deviation_Type", "Has_Deviation",
	})
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.EmployeeName, r.Date, r.Planned(), r.Actual(),
			string(r.PlannedCategory), string(r.ActualCategory), string(r.DeviationType), r.HasDeviation,
		})
	}
	if err := writeRows(f, SheetRawData, rows, headerStyle, func(done int) {
		reportProgress(opts.Progress, 5+done*60/max(len(rows), 1), "写入明细")
	}); err != nil {
		_ = f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetRawData, "A", "A", 28)
	_ = f.SetColWidth(SheetRawData, "B", "H", 18)

	// 类型汇总
	reportProgress(opts.Progress, 70, "写入汇总")
	if _, err := f.NewSheet(SheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}
	summary := [][]interface{}{{"Deviation_Type", "Count"}}
	for _, tc := range report.TypeDistribution(records) {
		summary = append(summary, []interface{}{string(tc.Type), tc.Count})
	}
	if err := writeRows(f, SheetSummary, summary, headerStyle, nil); err != nil {
		_ = f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 28)

	// 员工遵守率
	reportProgress(opts.Progress, 85, "写入员工统计")
	if _, err := f.NewSheet(SheetEmployees); err != nil {
		_ = f.Close()
		return nil, err
	}
	employees := [][]interface{}{{"Employee_Name", "Total_Deviations", "Total_Shifts", "Adherence_Rate"}}
	for _, s := range report.EmployeePerformance(records) {
		employees = append(employees, []interface{}{s.EmployeeName, s.TotalDeviations, s.TotalShifts, s.AdherenceRate})
	}
	if err := writeRows(f, SheetEmployees, employees, headerStyle, nil); err != nil {
		_ = f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetEmployees, "A", "A", 28)
	_ = f.SetColWidth(SheetEmployees, "B", "D", 18)

	f.SetActiveSheet(0)
	reportProgress(opts.Progress, 100, "完成")
	return f, nil
}

// ExportAttendance 导出出勤流水（Nurse Name / Date / Status / Ward）
func (e *Exporter) ExportAttendance(entries []model.AttendanceEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetSheetName("Sheet1", SheetLedger); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows := [][]interface{}{{"Nurse Name", "Date", "Status", "Ward"}}
	for _, it := range entries {
		rows = append(rows, []interface{}{it.NurseName, it.Date.Format("2006-01-02"), it.Status, it.Ward})
	}
	if err := writeRows(f, SheetLedger, rows, headerStyle, nil); err != nil {
		_ = f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetLedger, "A", "A", 28)
	_ = f.SetColWidth(SheetLedger, "B", "D", 16)
	return f, nil
}

// ExportFlatReport 导出平铺表明细与每位护士的偏差比例
func (e *Exporter) ExportFlatReport(rows []model.FlatShiftRow) (*excelize.File, error) {
	f := excelize.NewFile()
	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetSheetName("Sheet1", SheetRawData); err != nil {
		_ = f.Close()
		return nil, err
	}

	stats := report.NurseDeviationPercent(rows)
	percent := make(map[string]float64, len(stats))
	for _, s := range stats {
		percent[s.NurseName] = s.DeviationPercent
	}

	raw := [][]interface{}{{"Nurse Name", "Date", "Planned", "Actual", "Ward", "Deviation %"}}
	for _, r := range rows {
		raw = append(raw, []interface{}{r.NurseName, r.Date, r.Planned, r.Actual, r.Ward, percent[r.NurseName]})
	}
	if err := writeRows(f, SheetRawData, raw, headerStyle, nil); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}
	summary := [][]interface{}{{"Nurse Name", "Ward", "Records", "Deviated Days", "Deviation %"}}
	for _, s := range stats {
		summary = append(summary, []interface{}{s.NurseName, s.Ward, s.Records, s.DeviatedDays, s.DeviationPercent})
	}
	if err := writeRows(f, SheetSummary, summary, headerStyle, nil); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func newHeaderStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int, progress func(done int)) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
		if progress != nil && i%200 == 0 {
			progress(i)
		}
	}
	if len(rows) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
	}
	return nil
}

func reportProgress(progress func(ProgressEvent), percent int, stage string) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}
