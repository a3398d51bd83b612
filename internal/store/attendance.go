package store

import (
	"fmt"
	"time"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

const ledgerDateLayout = "2006-01-02"

// AppendAttendance 追加一条出勤流水，返回写入后的记录
//
// 流水只追加不修改；同一护士同一日期可以出现多条。
func (s *Store) AppendAttendance(entry model.AttendanceEntry) (*model.AttendanceEntry, error) {
	res, err := s.db.Exec(`
		INSERT INTO attendance_log (nurse_name, date, status, ward)
		VALUES (?, ?, ?, ?)
	`, entry.NurseName, entry.Date.Format(ledgerDateLayout), entry.Status, entry.Ward)
	if err != nil {
		return nil, fmt.Errorf("failed to append attendance: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance id: %w", err)
	}

	var created time.Time
	if err := s.db.QueryRow("SELECT created_at FROM attendance_log WHERE id = ?", id).Scan(&created); err != nil {
		return nil, fmt.Errorf("failed to read attendance: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = created
	return &entry, nil
}

// AttendanceQueryOptions 出勤流水查询选项
type AttendanceQueryOptions struct {
	NurseName string
	From      *time.Time
	To        *time.Time
	Limit     int
}

// ListAttendance 按写入顺序列出出勤流水
func (s *Store) ListAttendance(opts AttendanceQueryOptions) ([]model.AttendanceEntry, error) {
	query := "SELECT id, nurse_name, date, status, ward, created_at FROM attendance_log WHERE 1=1"
	args := []interface{}{}

	if opts.NurseName != "" {
		query += " AND nurse_name = ? COLLATE NOCASE"
		args = append(args, opts.NurseName)
	}
	if opts.From != nil {
		query += " AND date >= ?"
		args = append(args, opts.From.Format(ledgerDateLayout))
	}
	if opts.To != nil {
		query += " AND date <= ?"
		args = append(args, opts.To.Format(ledgerDateLayout))
	}
	query += " ORDER BY id"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var out []model.AttendanceEntry
	for rows.Next() {
		var (
			it   model.AttendanceEntry
			date string
		)
		if err := rows.Scan(&it.ID, &it.NurseName, &date, &it.Status, &it.Ward, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		it.Date, err = time.Parse(ledgerDateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("invalid attendance date %q: %w", date, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
