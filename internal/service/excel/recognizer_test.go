package excel_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
)

type sheetFixture struct {
	name string
	rows [][]interface{}
}

func rosterRows() [][]interface{} {
	return [][]interface{}{
		{"CITY HOSPITAL DUTY ROSTER"},
		{"S.NO", "STAFF NAME"},
		{nil, nil, "1", nil, "2"},
		{nil, nil, "MON", "MON", "TUE"},
		{1, "Jane Doe", "M", "N", "WO"},
		{2, "John Roe", "A", "NAN", "L"},
	}
}

func flatRows() [][]interface{} {
	return [][]interface{}{
		{"Nurse Name", "Date", "Planned", "Actual", "Ward"},
		{"Asha", "2025-01-01", "M", "M", "ICU"},
		{"Asha", "2025-01-02", "M", "L", "ICU"},
	}
}

func buildWorkbook(t *testing.T, sheets ...sheetFixture) *excelize.File {
	t.Helper()

	wb := excelize.NewFile()
	for i, s := range sheets {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("SetSheetName failed: %v", err)
			}
		} else if _, err := wb.NewSheet(s.name); err != nil {
			t.Fatalf("NewSheet %s failed: %v", s.name, err)
		}
		for r, row := range s.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := wb.SetSheetRow(s.name, cell, &values); err != nil {
				t.Fatalf("SetSheetRow %s failed: %v", s.name, err)
			}
		}
	}
	return wb
}

func loadWorkbook(t *testing.T, wb *excelize.File) *excel.Parser {
	t.Helper()

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	p := excel.NewParser()
	if err := p.LoadFile(bytes.NewReader(buf.Bytes()), "roster.xlsx"); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	return p
}

func TestRecognizeSheetTypes(t *testing.T) {
	wb := buildWorkbook(t,
		sheetFixture{name: "Notes", rows: [][]interface{}{{"prepared by admin"}}},
		sheetFixture{name: "Flat", rows: flatRows()},
		sheetFixture{name: "Duty Roster", rows: rosterRows()},
	)
	p := loadWorkbook(t, wb)

	results := excel.NewRecognizer().RecognizeWorkbook(p.Sheets())
	if got := results["Notes"].Type; got != model.SheetTypeUnknown {
		t.Fatalf("Notes type=%s", got)
	}
	if got := results["Flat"].Type; got != model.SheetTypeFlat {
		t.Fatalf("Flat type=%s", got)
	}
	roster := results["Duty Roster"]
	if roster.Type != model.SheetTypeRoster {
		t.Fatalf("Duty Roster type=%s", roster.Type)
	}
	if roster.HeaderRow != 1 {
		t.Fatalf("HeaderRow=%d", roster.HeaderRow)
	}
	if roster.Score != 1.0 {
		t.Fatalf("Score=%v", roster.Score)
	}
}

func TestPickRosterSheetPrefersHigherScore(t *testing.T) {
	weak := [][]interface{}{
		{"STAFF"},
		{"no dates here"},
	}
	wb := buildWorkbook(t,
		sheetFixture{name: "Draft", rows: weak},
		sheetFixture{name: "April", rows: rosterRows()},
	)
	p := loadWorkbook(t, wb)

	sheet, ok := excel.NewRecognizer().PickRosterSheet(p.Sheets())
	if !ok {
		t.Fatalf("expected a roster sheet")
	}
	if sheet.Name != "April" {
		t.Fatalf("picked %q", sheet.Name)
	}
}

func TestPickRosterSheetNone(t *testing.T) {
	wb := buildWorkbook(t, sheetFixture{name: "Flat", rows: flatRows()})
	p := loadWorkbook(t, wb)

	if _, ok := excel.NewRecognizer().PickRosterSheet(p.Sheets()); ok {
		t.Fatalf("flat sheet must not be picked as roster")
	}
}
