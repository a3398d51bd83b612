// Package store 内存排班存储，供命令行一次性分析使用
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	dbstore "github.com/Deeps-444/Attendance-Tracker/internal/store"
)

// MemoryStore 内存数据存储
//
// 与 SQLite store 提供相同的读取方法，未找到时返回 dbstore.ErrNotFound。
type MemoryStore struct {
	uploads map[string]*model.RosterUpload
	records map[string][]model.ShiftRecord
	current map[model.RosterKind]string
	mu      sync.RWMutex
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		uploads: make(map[string]*model.RosterUpload),
		records: make(map[string][]model.ShiftRecord),
		current: make(map[model.RosterKind]string),
	}
}

// AddRoster 保存一份排班表并设为该类型的当前表，返回上传 ID
func (s *MemoryStore) AddRoster(upload model.RosterUpload, records []model.ShiftRecord) (string, error) {
	if !upload.Kind.IsValid() {
		return "", fmt.Errorf("invalid roster kind: %q", upload.Kind)
	}
	if upload.ID == "" {
		upload.ID = uuid.NewString()
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	upload.RecordCount = len(records)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads[upload.ID] = &upload
	s.records[upload.ID] = append([]model.ShiftRecord(nil), records...)
	s.current[upload.Kind] = upload.ID
	return upload.ID, nil
}

// GetCurrentUpload 获取当前选中的排班表 ID
func (s *MemoryStore) GetCurrentUpload(kind model.RosterKind) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.current[kind]
	if !ok {
		return "", fmt.Errorf("current %s roster: %w", kind, dbstore.ErrNotFound)
	}
	return id, nil
}

// GetRosterUpload 获取排班表元信息
func (s *MemoryStore) GetRosterUpload(id string) (*model.RosterUpload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.uploads[id]
	if !ok {
		return nil, fmt.Errorf("roster upload %s: %w", id, dbstore.ErrNotFound)
	}
	out := *u
	out.Current = s.current[u.Kind] == id
	return &out, nil
}

// GetShiftRecords 获取排班记录副本
func (s *MemoryStore) GetShiftRecords(uploadID string) ([]model.ShiftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.records[uploadID]
	if !ok {
		return nil, fmt.Errorf("roster upload %s: %w", uploadID, dbstore.ErrNotFound)
	}
	return append([]model.ShiftRecord(nil), records...), nil
}
