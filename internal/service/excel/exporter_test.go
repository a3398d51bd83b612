package excel_test

import (
	"testing"
	"time"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
)

func strPtr(s string) *string { return &s }

func sampleDeviations() []model.DeviationRecord {
	return []model.DeviationRecord{
		{
			EmployeeID: "jane", EmployeeName: "Jane", Date: 1,
			PlannedShift: strPtr("M"), ActualShift: strPtr("M"),
			PlannedCategory: model.CategoryWorking, ActualCategory: model.CategoryWorking,
			DeviationType: model.DeviationNone,
		},
		{
			EmployeeID: "jane", EmployeeName: "Jane", Date: 2,
			PlannedShift: strPtr("M"), ActualShift: strPtr("L"),
			PlannedCategory: model.CategoryWorking, ActualCategory: model.CategoryLeave,
			DeviationType: model.DeviationAbsenceWithLeave, HasDeviation: true,
		},
		{
			EmployeeID: "john", EmployeeName: "John", Date: 1,
			ActualShift:    strPtr("M"),
			ActualCategory: model.CategoryWorking,
			DeviationType:  model.DeviationUnplannedAttendance, HasDeviation: true,
		},
	}
}

func TestExportDeviations(t *testing.T) {
	var stages []excel.ProgressEvent
	f, err := excel.NewExporter().ExportDeviations(sampleDeviations(), excel.ExportOptions{
		Progress: func(ev excel.ProgressEvent) { stages = append(stages, ev) },
	})
	if err != nil {
		t.Fatalf("ExportDeviations failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	want := []string{excel.SheetRawData, excel.SheetSummary, excel.SheetEmployees}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sheets=%v", got)
		}
	}

	rows, err := f.GetRows(excel.SheetRawData)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("raw rows=%d", len(rows))
	}
	if rows[0][2] != "Shift_Type_Planned" || rows[0][6] != "Deviation_Type" {
		t.Fatalf("header=%v", rows[0])
	}
	// 缺失的计划班次写为空
	if rows[3][2] != "" || rows[3][6] != string(model.DeviationUnplannedAttendance) {
		t.Fatalf("row=%v", rows[3])
	}

	summary, _ := f.GetRows(excel.SheetSummary)
	if len(summary) != 4 {
		t.Fatalf("summary=%v", summary)
	}

	if len(stages) == 0 || stages[len(stages)-1].Percent != 100 {
		t.Fatalf("progress=%+v", stages)
	}
}

func TestExportDeviationsOnlyDeviations(t *testing.T) {
	f, err := excel.NewExporter().ExportDeviations(sampleDeviations(), excel.ExportOptions{OnlyDeviations: true})
	if err != nil {
		t.Fatalf("ExportDeviations failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, _ := f.GetRows(excel.SheetRawData)
	if len(rows) != 3 {
		t.Fatalf("raw rows=%d", len(rows))
	}
	for _, row := range rows[1:] {
		if row[7] != "TRUE" {
			t.Fatalf("non-deviation exported: %v", row)
		}
	}
}

func TestExportAttendance(t *testing.T) {
	entries := []model.AttendanceEntry{
		{NurseName: "Asha", Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), Status: "Present", Ward: "ICU"},
		{NurseName: "Ben", Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), Status: "Leave"},
	}
	f, err := excel.NewExporter().ExportAttendance(entries)
	if err != nil {
		t.Fatalf("ExportAttendance failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, _ := f.GetRows(excel.SheetLedger)
	if len(rows) != 3 {
		t.Fatalf("rows=%v", rows)
	}
	if rows[0][0] != "Nurse Name" || rows[1][1] != "2025-03-04" || rows[2][2] != "Leave" {
		t.Fatalf("rows=%v", rows)
	}
}

func TestExportFlatReport(t *testing.T) {
	rows := []model.FlatShiftRow{
		{NurseName: "Asha", Date: "2025-01-01", Planned: "M", Actual: "M", Ward: "ICU"},
		{NurseName: "Asha", Date: "2025-01-02", Planned: "M", Actual: "L", Ward: "ICU"},
	}
	f, err := excel.NewExporter().ExportFlatReport(rows)
	if err != nil {
		t.Fatalf("ExportFlatReport failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	summary, _ := f.GetRows(excel.SheetSummary)
	if len(summary) != 2 || summary[1][0] != "Asha" || summary[1][4] != "50" {
		t.Fatalf("summary=%v", summary)
	}
}
