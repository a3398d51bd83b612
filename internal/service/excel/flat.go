package excel

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
)

// ParseFlat 解析平铺表：第一行为表头，包含 Nurse Name/Date/Planned/Actual，Ward 可选
//
// 缺少必需列时返回 parser.ErrNotRecognized。
func ParseFlat(grid model.Grid) ([]model.FlatShiftRow, error) {
	if len(grid) == 0 {
		return nil, parser.ErrNotRecognized
	}

	colIndex := make(map[string]int)
	for i, cell := range grid[0] {
		name := parser.NormalizeColumnName(cell.Text())
		if _, ok := colIndex[name]; !ok && name != "" {
			colIndex[name] = i
		}
	}
	for _, required := range []string{"NURSE NAME", "DATE", "PLANNED", "ACTUAL"} {
		if _, ok := colIndex[required]; !ok {
			return nil, parser.ErrNotRecognized
		}
	}

	get := func(row []model.Cell, field string) string {
		idx, ok := colIndex[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx].Text()
	}

	out := make([]model.FlatShiftRow, 0, len(grid)-1)
	for _, row := range grid[1:] {
		name := get(row, "NURSE NAME")
		if name == "" {
			continue
		}
		out = append(out, model.FlatShiftRow{
			NurseName: name,
			Date:      normalizeDate(get(row, "DATE")),
			Planned:   get(row, "PLANNED"),
			Actual:    get(row, "ACTUAL"),
			Ward:      get(row, "WARD"),
		})
	}
	return out, nil
}

// normalizeDate Excel 日期序列号转为 2006-01-02，其余原样返回
func normalizeDate(value string) string {
	value = strings.TrimSpace(value)
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= 20000 && serial <= 80000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return value
}
