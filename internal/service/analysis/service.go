// Package analysis 读取当前计划与实际排班并计算偏差
//
// 偏差记录不落库，每次请求时重新计算。
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/deviation"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

// ErrMissingRoster 计划或实际排班表尚未导入
var ErrMissingRoster = errors.New("planned and actual rosters are both required")

// RosterSource 排班数据来源
type RosterSource interface {
	GetCurrentUpload(kind model.RosterKind) (string, error)
	GetRosterUpload(id string) (*model.RosterUpload, error)
	GetShiftRecords(uploadID string) ([]model.ShiftRecord, error)
}

// Result 一次对比的结果
type Result struct {
	Planned *model.RosterUpload     `json:"planned"`
	Actual  *model.RosterUpload     `json:"actual"`
	Records []model.DeviationRecord `json:"records"`
}

// Filter 偏差记录过滤条件
type Filter struct {
	Employee       string              // 姓名子串，不区分大小写
	Type           model.DeviationType // 为空表示全部
	OnlyDeviations bool
}

// Service 偏差分析服务
type Service struct {
	source RosterSource
	engine *deviation.Engine
}

// NewService 创建分析服务
func NewService(source RosterSource, engine *deviation.Engine) *Service {
	return &Service{source: source, engine: engine}
}

// Engine 当前使用的分类引擎
func (s *Service) Engine() *deviation.Engine {
	return s.engine
}

// Current 对比当前选中的计划与实际排班表
func (s *Service) Current(ctx context.Context) (*Result, error) {
	plannedID, err := s.currentID(model.RosterPlanned)
	if err != nil {
		return nil, err
	}
	actualID, err := s.currentID(model.RosterActual)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, plannedID, actualID)
}

// Compare 对比指定的两份排班表
func (s *Service) Compare(ctx context.Context, plannedID, actualID string) (*Result, error) {
	planned, plannedRecords, err := s.load(plannedID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	actual, actualRecords, err := s.load(actualID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Planned: planned,
		Actual:  actual,
		Records: s.engine.Classify(plannedRecords, actualRecords),
	}, nil
}

func (s *Service) currentID(kind model.RosterKind) (string, error) {
	id, err := s.source.GetCurrentUpload(kind)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("no current %s roster: %w", kind, ErrMissingRoster)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) load(id string) (*model.RosterUpload, []model.ShiftRecord, error) {
	upload, err := s.source.GetRosterUpload(id)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.source.GetShiftRecords(id)
	if err != nil {
		return nil, nil, err
	}
	return upload, records, nil
}

// Apply 过滤偏差记录，不修改输入
func Apply(records []model.DeviationRecord, f Filter) []model.DeviationRecord {
	needle := strings.ToLower(strings.TrimSpace(f.Employee))
	out := make([]model.DeviationRecord, 0, len(records))
	for _, r := range records {
		if f.OnlyDeviations && !r.HasDeviation {
			continue
		}
		if f.Type != "" && r.DeviationType != f.Type {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.EmployeeName), needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}
