package attendance

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

var testStatuses = []string{"Present", "Absent", "Leave", "Off", "Half Day"}

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "attendance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc, err := NewService(st, testStatuses)
	require.NoError(t, err)
	return svc
}

func TestAppendNormalizesAndStores(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	got, err := svc.Append(ctx, Entry{NurseName: "  Asha  ", Date: "2025-04-01", Status: "half day", Ward: "ICU"})
	require.NoError(t, err)
	require.Equal(t, "Asha", got.NurseName)
	require.Equal(t, "Half Day", got.Status)
	require.Equal(t, "2025-04-01", got.Date.Format("2006-01-02"))

	_, err = svc.Append(ctx, Entry{NurseName: "Asha", Date: "2025-04-01", Status: "Present"})
	require.NoError(t, err)

	list, err := svc.List(ctx, ListOptions{NurseName: "asha"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "Half Day", list[0].Status)
}

func TestAppendValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	cases := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"missing name", Entry{Date: "2025-04-01", Status: "Present"}, "NurseName is required"},
		{"long name", Entry{NurseName: string(long), Date: "2025-04-01", Status: "Present"}, "NurseName must be at most 100"},
		{"bad date", Entry{NurseName: "Asha", Date: "01/04/2025", Status: "Present"}, "Date must be YYYY-MM-DD"},
		{"bad status", Entry{NurseName: "Asha", Date: "2025-04-01", Status: "Sick"}, `Status "Sick" is not allowed`},
	}
	for _, c := range cases {
		_, err := svc.Append(ctx, c.entry)
		require.Error(t, err, c.name)
		require.True(t, errors.Is(err, ErrInvalidEntry), c.name)
		require.Contains(t, err.Error(), c.want, c.name)
	}

	list, err := svc.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Empty(t, list, "rejected entries must not be stored")
}

func TestListDateRangeAndExport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, e := range []Entry{
		{NurseName: "Asha", Date: "2025-04-01", Status: "Present"},
		{NurseName: "Ben", Date: "2025-04-02", Status: "Off", Ward: "ER"},
		{NurseName: "Cara", Date: "2025-04-03", Status: "Leave"},
	} {
		_, err := svc.Append(ctx, e)
		require.NoError(t, err)
	}

	mid, err := svc.List(ctx, ListOptions{From: "2025-04-02", To: "2025-04-02"})
	require.NoError(t, err)
	require.Len(t, mid, 1)
	require.Equal(t, "Ben", mid[0].NurseName)

	_, err = svc.List(ctx, ListOptions{From: "yesterday"})
	require.ErrorIs(t, err, ErrInvalidEntry)

	f, err := svc.Export(ctx, ListOptions{})
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(excel.SheetLedger)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"Ben", "2025-04-02", "Off", "ER"}, rows[2])
}
