package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// CreateRosterUpload 写入排班表元信息与全部班次记录（单事务）
func (s *Store) CreateRosterUpload(upload *model.RosterUpload, records []model.ShiftRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO roster_uploads (id, kind, filename, sheet_name, record_count, employees, overwritten)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, upload.ID, string(upload.Kind), upload.Filename, upload.SheetName, upload.RecordCount, upload.Employees, upload.Overwritten)
	if err != nil {
		return fmt.Errorf("failed to insert roster upload: %w", err)
	}

	if err := insertShiftRecords(tx, upload.ID, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertShiftRecords(tx *sql.Tx, uploadID string, records []model.ShiftRecord) error {
	stmt, err := tx.Prepare(`
		INSERT INTO shift_records (upload_id, employee_id, employee_name, day, day_label, shift_code)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(upload_id, employee_id, day) DO UPDATE SET
			employee_name = excluded.employee_name,
			day_label = excluded.day_label,
			shift_code = excluded.shift_code
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(uploadID, r.EmployeeID, r.EmployeeName, r.Date, r.DayLabel, r.ShiftCode); err != nil {
			return fmt.Errorf("failed to insert shift record: %w", err)
		}
	}
	return nil
}

const rosterUploadColumns = `id, kind, filename, sheet_name, record_count, employees, overwritten, created_at`

func scanRosterUpload(scan func(dest ...interface{}) error) (*model.RosterUpload, error) {
	var (
		u    model.RosterUpload
		kind string
	)
	if err := scan(&u.ID, &kind, &u.Filename, &u.SheetName, &u.RecordCount, &u.Employees, &u.Overwritten, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Kind = model.RosterKind(kind)
	return &u, nil
}

// GetRosterUpload 获取排班表元信息
func (s *Store) GetRosterUpload(id string) (*model.RosterUpload, error) {
	row := s.db.QueryRow("SELECT "+rosterUploadColumns+" FROM roster_uploads WHERE id = ?", id)
	u, err := scanRosterUpload(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("roster upload %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get roster upload: %w", err)
	}
	u.Current = s.isCurrent(u)
	return u, nil
}

// ListRosterUploads 列出排班表（新在前）；kind 为空时返回全部
func (s *Store) ListRosterUploads(kind model.RosterKind) ([]*model.RosterUpload, error) {
	query := "SELECT " + rosterUploadColumns + " FROM roster_uploads"
	args := []interface{}{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster uploads: %w", err)
	}
	defer rows.Close()

	var out []*model.RosterUpload
	for rows.Next() {
		u, err := scanRosterUpload(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan roster upload: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	// 单连接下需在 rows 关闭后再查询 config
	for _, u := range out {
		u.Current = s.isCurrent(u)
	}
	return out, nil
}

func (s *Store) isCurrent(u *model.RosterUpload) bool {
	current, err := s.GetCurrentUpload(u.Kind)
	return err == nil && current == u.ID
}

// GetShiftRecords 获取排班表的全部班次记录，按员工、日期排序
func (s *Store) GetShiftRecords(uploadID string) ([]model.ShiftRecord, error) {
	rows, err := s.db.Query(`
		SELECT employee_id, employee_name, day, day_label, shift_code
		FROM shift_records
		WHERE upload_id = ?
		ORDER BY employee_id, day
	`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift records: %w", err)
	}
	defer rows.Close()

	var out []model.ShiftRecord
	for rows.Next() {
		var r model.ShiftRecord
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeName, &r.Date, &r.DayLabel, &r.ShiftCode); err != nil {
			return nil, fmt.Errorf("failed to scan shift record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRosterUpload 删除排班表；若为当前排班表则同时清除当前标记
func (s *Store) DeleteRosterUpload(id string) error {
	upload, err := s.GetRosterUpload(id)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM shift_records WHERE upload_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete shift records: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM roster_uploads WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete roster upload: %w", err)
	}
	if upload.Current {
		if _, err := tx.Exec("DELETE FROM config WHERE key = ?", currentUploadKey(upload.Kind)); err != nil {
			return fmt.Errorf("failed to clear current upload: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
