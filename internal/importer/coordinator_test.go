package importer

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "attendance.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}, order ...string) string {
	t.Helper()

	wb := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName: %v", err)
			}
		} else if _, err := wb.NewSheet(name); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := wb.SetSheetRow(name, cell, &values); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "roster.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func drain(t *testing.T, ch <-chan ProgressEvent) (*parser.ImportReport, []ProgressEvent) {
	t.Helper()

	var (
		report *parser.ImportReport
		events []ProgressEvent
	)
	for evt := range ch {
		events = append(events, evt)
		if evt.Type == "error" {
			t.Fatalf("import error event: %s", evt.Message)
		}
		if evt.Type == "done" {
			r, ok := evt.Data.(*parser.ImportReport)
			if !ok {
				t.Fatalf("unexpected report type: %T", evt.Data)
			}
			report = r
		}
	}
	if report == nil {
		t.Fatalf("missing done report")
	}
	return report, events
}

func TestImportRoster(t *testing.T) {
	st := newTestStore(t)
	path := writeWorkbook(t, map[string][][]interface{}{
		"Cover": {{"Ward 3 schedule"}},
		"Roster": {
			{"NURSING DUTY ROSTER - APRIL"},
			{"S.NO", "NAME OF STAFF"},
			{nil, nil, "1", nil, "2", "3"},
			{nil, nil, "TUE", nil, "WED", "THU"},
			{1, "Jane Doe", "M", "A", "WO", "L"},
			{2, "John Roe", "N", "", "NAN", "8AM"},
		},
	}, "Cover", "Roster")

	ch := NewCoordinator(st).Import(context.Background(), ImportOptions{
		FilePath:         path,
		OriginalFilename: "april.xlsx",
		Kind:             model.RosterPlanned,
		SetCurrent:       true,
	})
	report, events := drain(t, ch)

	if report.Status != StatusImported {
		t.Fatalf("status=%s sheets=%+v", report.Status, report.Sheets)
	}
	if report.TotalSheets != 2 || report.ImportedSheets != 1 || report.SkippedSheets != 1 {
		t.Fatalf("report=%+v", report)
	}
	// Jane: 1(M→A 覆盖), 2, 3；John: 1, 3
	if report.ImportedRows != 5 || report.Employees != 2 {
		t.Fatalf("rows=%d employees=%d", report.ImportedRows, report.Employees)
	}
	if events[0].Type != "start" || events[len(events)-1].Type != "done" {
		t.Fatalf("unexpected event order: first=%s last=%s", events[0].Type, events[len(events)-1].Type)
	}

	current, err := st.GetCurrentUpload(model.RosterPlanned)
	if err != nil || current != report.UploadID {
		t.Fatalf("current=%q err=%v upload=%q", current, err, report.UploadID)
	}
	upload, err := st.GetRosterUpload(report.UploadID)
	if err != nil {
		t.Fatalf("GetRosterUpload: %v", err)
	}
	if upload.Filename != "april.xlsx" || upload.SheetName != "Roster" || upload.Overwritten != 1 {
		t.Fatalf("upload=%+v", upload)
	}

	records, err := st.GetShiftRecords(report.UploadID)
	if err != nil {
		t.Fatalf("GetShiftRecords: %v", err)
	}
	if len(records) != 5 || records[0].ShiftCode != "A" {
		t.Fatalf("records=%+v", records)
	}

	logs, err := st.ListImportLogs(10)
	if err != nil || len(logs) != 1 {
		t.Fatalf("logs=%+v err=%v", logs, err)
	}
	if logs[0].Status != StatusImported || logs[0].UploadID != report.UploadID {
		t.Fatalf("log=%+v", logs[0])
	}
}

func TestImportNotRecognizedIsNotFatal(t *testing.T) {
	st := newTestStore(t)
	path := writeWorkbook(t, map[string][][]interface{}{
		"Sheet": {
			{"Employee", "1", "2"},
			{"Jane", "M", "A"},
		},
	}, "Sheet")

	report, events := drain(t, NewCoordinator(st).Import(context.Background(), ImportOptions{
		FilePath: path,
		Kind:     model.RosterActual,
	}))

	if report.Status != StatusNotRecognized || report.UploadID != "" {
		t.Fatalf("report=%+v", report)
	}
	hasWarning := false
	for _, evt := range events {
		if evt.Type == "warning" {
			hasWarning = true
		}
	}
	if !hasWarning {
		t.Fatalf("expected warning event")
	}

	uploads, err := st.ListRosterUploads("")
	if err != nil || len(uploads) != 0 {
		t.Fatalf("uploads=%+v err=%v", uploads, err)
	}
}

func TestImportMissingFileReportsError(t *testing.T) {
	st := newTestStore(t)

	var last ProgressEvent
	for evt := range NewCoordinator(st).Import(context.Background(), ImportOptions{
		FilePath: filepath.Join(t.TempDir(), "missing.xlsx"),
		Kind:     model.RosterPlanned,
	}) {
		last = evt
	}
	if last.Type != "error" {
		t.Fatalf("last event=%+v", last)
	}

	logs, err := st.ListImportLogs(10)
	if err != nil || len(logs) != 1 || logs[0].Status != StatusError {
		t.Fatalf("logs=%+v err=%v", logs, err)
	}
}

func TestImportRecoversFromPanic(t *testing.T) {
	// 未初始化的 store 在写导入日志时触发空指针 panic
	c := NewCoordinator(nil)

	var events []ProgressEvent
	for evt := range c.Import(context.Background(), ImportOptions{
		FilePath: filepath.Join(t.TempDir(), "roster.xlsx"),
		Kind:     model.RosterActual,
	}) {
		events = append(events, evt)
	}
	if len(events) == 0 {
		t.Fatal("no events")
	}
	last := events[len(events)-1]
	if last.Type != "error" || !strings.Contains(last.Message, "内部错误") {
		t.Fatalf("last event=%+v", last)
	}
}
