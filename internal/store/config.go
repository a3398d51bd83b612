package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("config key %s: %w", key, ErrNotFound)
		}
		return "", err
	}
	return value, nil
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

func currentUploadKey(kind model.RosterKind) string {
	return "current_" + string(kind) + "_upload"
}

// GetCurrentUpload 获取当前使用的排班表 ID；未设置时返回 ErrNotFound
func (s *Store) GetCurrentUpload(kind model.RosterKind) (string, error) {
	return s.GetConfig(currentUploadKey(kind))
}

// SetCurrentUpload 设置当前使用的排班表
func (s *Store) SetCurrentUpload(kind model.RosterKind, uploadID string) error {
	upload, err := s.GetRosterUpload(uploadID)
	if err != nil {
		return err
	}
	if upload.Kind != kind {
		return fmt.Errorf("upload %s is %s, not %s", uploadID, upload.Kind, kind)
	}
	return s.SetConfig(currentUploadKey(kind), uploadID)
}
