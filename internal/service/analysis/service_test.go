package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/deviation"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

type memorySource struct {
	current map[model.RosterKind]string
	uploads map[string]*model.RosterUpload
	records map[string][]model.ShiftRecord
}

func (m *memorySource) GetCurrentUpload(kind model.RosterKind) (string, error) {
	id, ok := m.current[kind]
	if !ok {
		return "", store.ErrNotFound
	}
	return id, nil
}

func (m *memorySource) GetRosterUpload(id string) (*model.RosterUpload, error) {
	u, ok := m.uploads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memorySource) GetShiftRecords(id string) ([]model.ShiftRecord, error) {
	return m.records[id], nil
}

func rec(id, name string, date int, code string) model.ShiftRecord {
	return model.ShiftRecord{EmployeeID: id, EmployeeName: name, Date: date, ShiftCode: code}
}

func newSource() *memorySource {
	return &memorySource{
		current: map[model.RosterKind]string{},
		uploads: map[string]*model.RosterUpload{
			"p": {ID: "p", Kind: model.RosterPlanned},
			"a": {ID: "a", Kind: model.RosterActual},
		},
		records: map[string][]model.ShiftRecord{
			"p": {rec("jane", "Jane", 1, "M"), rec("jane", "Jane", 2, "M"), rec("ben", "Ben", 1, "N")},
			"a": {rec("jane", "Jane", 1, "M"), rec("jane", "Jane", 2, "L"), rec("ben", "Ben", 1, "A")},
		},
	}
}

func TestCurrentRequiresBothRosters(t *testing.T) {
	src := newSource()
	svc := NewService(src, deviation.NewEngine(deviation.DefaultVocabulary()))

	_, err := svc.Current(context.Background())
	require.True(t, errors.Is(err, ErrMissingRoster))

	src.current[model.RosterPlanned] = "p"
	_, err = svc.Current(context.Background())
	require.ErrorIs(t, err, ErrMissingRoster)
}

func TestCurrentClassifies(t *testing.T) {
	src := newSource()
	src.current[model.RosterPlanned] = "p"
	src.current[model.RosterActual] = "a"
	svc := NewService(src, deviation.NewEngine(deviation.DefaultVocabulary()))

	res, err := svc.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "p", res.Planned.ID)
	require.Len(t, res.Records, 3)
	// 按员工关联键排序：ben 在 jane 之前
	require.Equal(t, model.DeviationShiftChange, res.Records[0].DeviationType)
	require.Equal(t, model.DeviationNone, res.Records[1].DeviationType)
	require.Equal(t, model.DeviationAbsenceWithLeave, res.Records[2].DeviationType)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Current(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestApplyFilter(t *testing.T) {
	src := newSource()
	svc := NewService(src, deviation.NewEngine(deviation.DefaultVocabulary()))
	res, err := svc.Compare(context.Background(), "p", "a")
	require.NoError(t, err)

	require.Len(t, Apply(res.Records, Filter{OnlyDeviations: true}), 2)
	require.Len(t, Apply(res.Records, Filter{Employee: "JAN"}), 2)
	require.Len(t, Apply(res.Records, Filter{Employee: "jan", Type: model.DeviationAbsenceWithLeave}), 1)
	require.Empty(t, Apply(res.Records, Filter{Type: model.DeviationAbsence}))
	require.Len(t, res.Records, 3, "input must not be modified")

	_, err = svc.Compare(context.Background(), "p", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
