package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/deviation"
)

func shift(name string, date int, code string) model.ShiftRecord {
	return model.ShiftRecord{EmployeeID: parser.EmployeeKey(name), EmployeeName: name, Date: date, ShiftCode: code}
}

func sampleRecords() []model.DeviationRecord {
	planned := []model.ShiftRecord{
		shift("Jane", 1, "M"),
		shift("Jane", 2, "M"),
		shift("Jane", 3, "WO"),
		shift("John", 1, "N"),
		shift("John", 2, "N"),
	}
	actual := []model.ShiftRecord{
		shift("Jane", 1, "M"),
		shift("Jane", 2, "L"),
		shift("Jane", 3, "WO"),
		shift("John", 1, "A"),
		shift("John", 3, "M"),
	}
	// Jane: 1 none, 2 absence(with leave), 3 none
	// John: 1 shift change, 2 absence, 3 unplanned
	return deviation.NewEngine(deviation.DefaultVocabulary()).Classify(planned, actual)
}

func TestTypeDistribution(t *testing.T) {
	t.Parallel()

	records := append(sampleRecords(), model.DeviationRecord{DeviationType: model.DeviationNoRecord})
	got := TypeDistribution(records)
	want := []TypeCount{
		{Type: model.DeviationNone, Count: 2},
		{Type: model.DeviationAbsence, Count: 1},
		{Type: model.DeviationAbsenceWithLeave, Count: 1},
		{Type: model.DeviationShiftChange, Count: 1},
		{Type: model.DeviationUnplannedAttendance, Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("distribution (-want +got):\n%s", diff)
	}
}

func TestDailyTrendAndBreakdown(t *testing.T) {
	t.Parallel()

	records := sampleRecords()
	trend := DailyTrend(records)
	wantTrend := []DateCount{{Date: 1, Count: 1}, {Date: 2, Count: 2}, {Date: 3, Count: 1}}
	if diff := cmp.Diff(wantTrend, trend); diff != "" {
		t.Fatalf("trend (-want +got):\n%s", diff)
	}

	if got := DailyTrend(nil); len(got) != 0 {
		t.Fatalf("empty trend expected, got %v", got)
	}

	breakdown := DateBreakdown(records)
	if len(breakdown) != 6 {
		t.Fatalf("breakdown = %+v", breakdown)
	}
	if breakdown[0].Date != 1 || breakdown[len(breakdown)-1].Date != 3 {
		t.Fatalf("breakdown not sorted by date: %+v", breakdown)
	}
}

func TestEmployeePerformance(t *testing.T) {
	t.Parallel()

	got := EmployeePerformance(sampleRecords())
	want := []EmployeeStat{
		{EmployeeName: "John", TotalDeviations: 3, TotalShifts: 3, AdherenceRate: 0},
		{EmployeeName: "Jane", TotalDeviations: 1, TotalShifts: 3, AdherenceRate: 66.67},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("performance (-want +got):\n%s", diff)
	}
}

func TestShiftCounts(t *testing.T) {
	t.Parallel()

	records := sampleRecords()
	planned := PlannedShiftDeviations(records)
	wantPlanned := []ShiftCount{{ShiftType: "N", Count: 2}, {ShiftType: "M", Count: 1}}
	if diff := cmp.Diff(wantPlanned, planned); diff != "" {
		t.Fatalf("planned (-want +got):\n%s", diff)
	}

	actual := ActualShiftDistribution(records)
	wantActual := []ShiftCount{
		{ShiftType: "M", Count: 2},
		{ShiftType: "A", Count: 1},
		{ShiftType: "L", Count: 1},
		{ShiftType: "WO", Count: 1},
	}
	if diff := cmp.Diff(wantActual, actual); diff != "" {
		t.Fatalf("actual (-want +got):\n%s", diff)
	}
}

func TestSummarizeAndPercent(t *testing.T) {
	t.Parallel()

	s := Summarize(sampleRecords())
	if s.TotalRecords != 6 || s.TotalDeviations != 4 || s.Employees != 2 {
		t.Fatalf("summary = %+v", s)
	}
	if Percent(1, 3) != 33.33 || Percent(2, 3) != 66.67 || Percent(0, 0) != 0 {
		t.Fatalf("percent rounding broken")
	}
}

func TestNurseDeviationPercent(t *testing.T) {
	t.Parallel()

	rows := []model.FlatShiftRow{
		{NurseName: "Asha", Date: "2025-01-01", Planned: "M", Actual: "M", Ward: "ICU"},
		{NurseName: "Asha", Date: "2025-01-02", Planned: "M", Actual: "L"},
		{NurseName: "Ben", Date: "2025-01-01", Planned: "N", Actual: "N"},
		{NurseName: "", Date: "2025-01-01", Planned: "N", Actual: "A"},
	}
	got := NurseDeviationPercent(rows)
	want := []NurseDeviation{
		{NurseName: "Asha", Ward: "ICU", Records: 2, DeviatedDays: 1, DeviationPercent: 50},
		{NurseName: "Ben", Records: 1, DeviationPercent: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("nurse deviation (-want +got):\n%s", diff)
	}
}
