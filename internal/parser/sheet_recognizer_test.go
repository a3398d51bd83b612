package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

func TestSheetRecognizer_Recognize(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer()
	cases := []struct {
		name  string
		sheet string
		grid  model.Grid
		want  model.SheetRecognition
	}{
		{
			name:  "full roster",
			sheet: "Duty Roster",
			grid: grid(
				[]string{"WARD 3"},
				[]string{"S.NO", "STAFF NAME"},
				[]string{"", "", "1", "2"},
				[]string{"", "", "MON", "TUE"},
				[]string{"1", "Jane", "M", "N"},
			),
			want: model.SheetRecognition{SheetName: "Duty Roster", Type: model.SheetTypeRoster, Score: 1.0, HeaderRow: 1},
		},
		{
			name:  "roster without name column or dates",
			sheet: "Sheet1",
			grid: grid(
				[]string{"STAFF", "", ""},
				[]string{"", "MON", "TUE"},
			),
			want: model.SheetRecognition{
				SheetName:     "Sheet1",
				Type:          model.SheetTypeRoster,
				Score:         0.5,
				HeaderRow:     0,
				MissingFields: []string{"NAME", "DATE_STRIP"},
			},
		},
		{
			name:  "flat",
			sheet: "Data",
			grid: grid(
				[]string{"Nurse Name", "Date", "Planned", "Actual", "Ward"},
				[]string{"Asha", "2025-01-01", "M", "L", "ICU"},
			),
			want: model.SheetRecognition{SheetName: "Data", Type: model.SheetTypeFlat, Score: 1.0, HeaderRow: 0},
		},
		{
			name:  "unrelated",
			sheet: "Notes",
			grid:  grid([]string{"prepared by admin"}),
			want:  model.SheetRecognition{SheetName: "Notes", Type: model.SheetTypeUnknown, HeaderRow: -1},
		},
		{
			name:  "empty",
			sheet: "Blank",
			grid:  nil,
			want:  model.SheetRecognition{SheetName: "Blank", Type: model.SheetTypeUnknown, HeaderRow: -1},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := r.Recognize(tc.sheet, tc.grid)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("recognition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
