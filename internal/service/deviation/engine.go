package deviation

import (
	"sort"
	"strings"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// Engine 偏差分类引擎
type Engine struct {
	vocab Vocabulary
}

// NewEngine 创建分类引擎
func NewEngine(vocab Vocabulary) *Engine {
	return &Engine{vocab: vocab}
}

// Vocabulary 当前生效的班次词表
func (e *Engine) Vocabulary() Vocabulary {
	return e.vocab
}

// Categorize 计算班次类别
func (e *Engine) Categorize(code string) model.ShiftCategory {
	return e.vocab.Categorize(code)
}

// Classify 按 (员工, 日期) 全外连接计划与实际记录并标注偏差类型
//
// 输入不会被修改；输出按员工关联键、日期排序，同样的输入得到同样的输出。
func (e *Engine) Classify(planned, actual []model.ShiftRecord) []model.DeviationRecord {
	plannedByKey := indexByKey(planned)
	actualByKey := indexByKey(actual)

	// 姓名优先取计划侧，计划侧没有该员工时取实际侧
	names := make(map[string]string)
	for _, r := range planned {
		if _, ok := names[r.EmployeeID]; !ok && r.EmployeeName != "" {
			names[r.EmployeeID] = r.EmployeeName
		}
	}
	for _, r := range actual {
		if _, ok := names[r.EmployeeID]; !ok && r.EmployeeName != "" {
			names[r.EmployeeID] = r.EmployeeName
		}
	}

	keys := make([]model.ShiftKey, 0, len(plannedByKey)+len(actualByKey))
	for k := range plannedByKey {
		keys = append(keys, k)
	}
	for k := range actualByKey {
		if _, ok := plannedByKey[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].EmployeeID != keys[j].EmployeeID {
			return keys[i].EmployeeID < keys[j].EmployeeID
		}
		return keys[i].Date < keys[j].Date
	})

	out := make([]model.DeviationRecord, 0, len(keys))
	for _, k := range keys {
		rec := model.DeviationRecord{
			EmployeeID:   k.EmployeeID,
			EmployeeName: names[k.EmployeeID],
			Date:         k.Date,
		}
		if p, ok := plannedByKey[k]; ok {
			code := p.ShiftCode
			rec.PlannedShift = &code
			rec.PlannedCategory = e.vocab.Categorize(code)
		}
		if a, ok := actualByKey[k]; ok {
			code := a.ShiftCode
			rec.ActualShift = &code
			rec.ActualCategory = e.vocab.Categorize(code)
		}
		rec.DeviationType = e.deviationType(rec)
		rec.HasDeviation = rec.DeviationType.IsDeviation()
		out = append(out, rec)
	}
	return out
}

// deviationType 决策表，按优先级依次判断
func (e *Engine) deviationType(r model.DeviationRecord) model.DeviationType {
	hasPlanned := r.PlannedShift != nil
	hasActual := r.ActualShift != nil
	plannedWorking := r.PlannedCategory == model.CategoryWorking
	actualWorking := r.ActualCategory == model.CategoryWorking

	switch {
	case !hasPlanned && !hasActual:
		// 外连接下不会出现，保留以表明不变量
		return model.DeviationNoRecord
	case hasPlanned && !hasActual:
		if plannedWorking {
			return model.DeviationAbsence
		}
		return model.DeviationNone
	case !hasPlanned && hasActual:
		if actualWorking {
			return model.DeviationUnplannedAttendance
		}
		return model.DeviationNone
	case strings.EqualFold(*r.PlannedShift, *r.ActualShift):
		return model.DeviationNone
	case plannedWorking && !actualWorking:
		return model.DeviationAbsenceWithLeave
	case !plannedWorking && actualWorking:
		return model.DeviationUnplannedAttendance
	case plannedWorking && actualWorking:
		return model.DeviationShiftChange
	default:
		return model.DeviationMinorChange
	}
}

// indexByKey 同一关联键出现多次时保留最后一条
func indexByKey(records []model.ShiftRecord) map[model.ShiftKey]model.ShiftRecord {
	m := make(map[model.ShiftKey]model.ShiftRecord, len(records))
	for _, r := range records {
		m[r.Key()] = r
	}
	return m
}
