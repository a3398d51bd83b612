package store

import (
	"database/sql"
	"fmt"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(filename, filePath string, fileSize int64, kind model.RosterKind) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, file_path, file_size, kind, status)
		VALUES (?, ?, ?, ?, 'processing')
	`, filename, filePath, fileSize, string(kind))
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(id int64, uploadID string, totalSheets, importedSheets, skippedSheets, importedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			upload_id = ?,
			total_sheets = ?,
			imported_sheets = ?,
			skipped_sheets = ?,
			imported_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, uploadID, totalSheets, importedSheets, skippedSheets, importedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志（新在前）
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, filename, file_path, file_size, kind, upload_id,
			total_sheets, imported_sheets, skipped_sheets, imported_rows,
			status, error_message, created_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}
	defer rows.Close()

	var out []model.ImportLog
	for rows.Next() {
		var (
			it        model.ImportLog
			kind      string
			completed sql.NullTime
		)
		if err := rows.Scan(
			&it.ID, &it.Filename, &it.FilePath, &it.FileSize, &kind, &it.UploadID,
			&it.TotalSheets, &it.ImportedSheets, &it.SkippedSheets, &it.ImportedRows,
			&it.Status, &it.ErrorMessage, &it.CreatedAt, &completed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		it.Kind = model.RosterKind(kind)
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
