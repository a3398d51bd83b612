package parser

import (
	"errors"
	"time"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// ErrNotRecognized 不是可识别的排班表（缺少表头或未解析出任何记录）
//
// 这不是致命错误，调用方应提示用户更换文件。
var ErrNotRecognized = errors.New("roster layout not recognized")

// CalendarColumn 日期条中的一列
type CalendarColumn struct {
	Offset   int    `json:"offset"` // 相对员工列右侧第一列的偏移
	Date     int    `json:"date"`
	DayLabel string `json:"day"`
}

// NormalizeResult 排班表归一化结果
type NormalizeResult struct {
	HeaderRow   int                 `json:"headerRow"`
	EmployeeCol int                 `json:"employeeCol"`
	Calendar    []CalendarColumn    `json:"calendar"`
	Records     []model.ShiftRecord `json:"records"`
	Overwritten int                 `json:"overwritten"` // 同一 (员工, 日期) 被后续单元格覆盖的次数
	SkippedRows int                 `json:"skippedRows"` // 姓名为空被跳过的行
}

// Employees 去重后的员工数
func (r *NormalizeResult) Employees() int {
	seen := make(map[string]struct{})
	for _, rec := range r.Records {
		seen[rec.EmployeeID] = struct{}{}
	}
	return len(seen)
}

// ParseResult 单个 sheet 的导入结果
type ParseResult struct {
	SheetName    string          `json:"sheetName"`
	SheetType    model.SheetType `json:"sheetType"`
	Status       string          `json:"status"` // imported/skipped/not_recognized/error
	ImportedRows int             `json:"importedRows"`
	Overwritten  int             `json:"overwritten"`
	Errors       []string        `json:"errors,omitempty"`
	Duration     time.Duration   `json:"duration"`
}

// ImportReport 导入报告
type ImportReport struct {
	Filename       string           `json:"filename"`
	Kind           model.RosterKind `json:"kind"`
	UploadID       string           `json:"uploadId,omitempty"`
	Status         string           `json:"status"` // imported/not_recognized/error
	TotalSheets    int              `json:"totalSheets"`
	ImportedSheets int              `json:"importedSheets"`
	SkippedSheets  int              `json:"skippedSheets"`
	ImportedRows   int              `json:"importedRows"`
	Employees      int              `json:"employees"`
	Duration       time.Duration    `json:"duration"`
	Sheets         []ParseResult    `json:"sheets"`
}
