package parser

import (
	"strings"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// SheetRecognizer Sheet 类型识别器
type SheetRecognizer struct {
	flatFields []string
}

// NewSheetRecognizer 创建识别器
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{
		flatFields: []string{"NURSE NAME", "DATE", "PLANNED", "ACTUAL"},
	}
}

// Recognize 识别 Sheet 类型
func (r *SheetRecognizer) Recognize(sheetName string, grid model.Grid) model.SheetRecognition {
	if result := r.recognizeFlat(sheetName, grid); result.Score >= 1.0 {
		return result
	}

	if result := r.recognizeRoster(sheetName, grid); result.Score >= 0.5 {
		return result
	}

	// 无法识别
	return model.SheetRecognition{
		SheetName: sheetName,
		Type:      model.SheetTypeUnknown,
		HeaderRow: -1,
	}
}

// recognizeRoster 识别排班矩阵
func (r *SheetRecognizer) recognizeRoster(sheetName string, grid model.Grid) model.SheetRecognition {
	headerRow := FindHeaderRow(grid)
	if headerRow < 0 {
		return model.SheetRecognition{
			SheetName:     sheetName,
			Type:          model.SheetTypeUnknown,
			HeaderRow:     -1,
			MissingFields: []string{"STAFF/NAME"},
		}
	}

	score := 0.5
	var missing []string

	hasName := false
	for _, cell := range grid[headerRow] {
		if cell.Present && strings.Contains(strings.ToUpper(cell.Value), "NAME") {
			hasName = true
			break
		}
	}
	if hasName {
		score += 0.2
	} else {
		missing = append(missing, "NAME")
	}

	hasDate := false
	for _, cell := range rowCells(grid, headerRow+1) {
		if _, ok := ParseDayNumber(cell.Text()); ok {
			hasDate = true
			break
		}
	}
	if hasDate {
		score += 0.3
	} else {
		missing = append(missing, "DATE_STRIP")
	}

	// Sheet 名称辅助判定
	upper := strings.ToUpper(sheetName)
	if ContainsAny(upper, []string{"ROSTER", "SHIFT", "DUTY"}) {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}

	return model.SheetRecognition{
		SheetName:     sheetName,
		Type:          model.SheetTypeRoster,
		Score:         score,
		HeaderRow:     headerRow,
		MissingFields: missing,
	}
}

// recognizeFlat 识别平铺表：第一行必须包含全部字段
func (r *SheetRecognizer) recognizeFlat(sheetName string, grid model.Grid) model.SheetRecognition {
	if len(grid) == 0 {
		return model.SheetRecognition{SheetName: sheetName, Type: model.SheetTypeUnknown, HeaderRow: -1}
	}

	headers := make(map[string]struct{}, len(grid[0]))
	for _, cell := range grid[0] {
		if v := NormalizeColumnName(cell.Text()); v != "" {
			headers[v] = struct{}{}
		}
	}

	hit := 0
	var missing []string
	for _, field := range r.flatFields {
		if _, ok := headers[field]; ok {
			hit++
		} else {
			missing = append(missing, field)
		}
	}

	return model.SheetRecognition{
		SheetName:     sheetName,
		Type:          model.SheetTypeFlat,
		Score:         float64(hit) / float64(len(r.flatFields)),
		HeaderRow:     0,
		MissingFields: missing,
	}
}

func rowCells(grid model.Grid, row int) []model.Cell {
	if row < 0 || row >= len(grid) {
		return nil
	}
	return grid[row]
}
