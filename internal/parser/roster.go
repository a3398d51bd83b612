package parser

import (
	"strings"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

var headerKeywords = []string{"STAFF", "NAME"}

// Normalize 将人工编写的排班矩阵转换为 (员工, 日期, 班次) 记录
//
// 表头位置未知：第一行包含 STAFF/NAME 的行为表头，其下两行依次为日期条与星期条。
// 单元格无法识别时直接跳过；没有表头或没有记录时返回 ErrNotRecognized。
func Normalize(grid model.Grid) (*NormalizeResult, error) {
	headerRow := FindHeaderRow(grid)
	if headerRow < 0 {
		return nil, ErrNotRecognized
	}

	dateRow := headerRow + 1
	dayRow := headerRow + 2
	if dateRow >= len(grid) {
		return nil, ErrNotRecognized
	}

	width := grid.Width()
	dateCells := make([]model.Cell, width)
	dayCells := make([]model.Cell, width)
	for col := 0; col < width; col++ {
		dateCells[col] = grid.At(dateRow, col)
		dayCells[col] = grid.At(dayRow, col)
	}
	calendar := CarryForwardCalendar(dateCells, dayCells)

	employeeCol := FindEmployeeColumn(grid[headerRow])

	result := &NormalizeResult{
		HeaderRow:   headerRow,
		EmployeeCol: employeeCol,
		Calendar:    calendar,
	}

	index := make(map[model.ShiftKey]int)
	for rowIdx := dayRow + 1; rowIdx < len(grid); rowIdx++ {
		name := grid.At(rowIdx, employeeCol).Text()
		if name == "" {
			result.SkippedRows++
			continue
		}
		employeeID := EmployeeKey(name)

		for _, cal := range calendar {
			col := employeeCol + 1 + cal.Offset
			if col >= width {
				break
			}
			code := NormalizeCode(grid.At(rowIdx, col).Text())
			if code == "" || code == "NAN" {
				continue
			}

			rec := model.ShiftRecord{
				EmployeeID:   employeeID,
				EmployeeName: name,
				Date:         cal.Date,
				DayLabel:     cal.DayLabel,
				ShiftCode:    code,
			}
			if i, ok := index[rec.Key()]; ok {
				result.Records[i] = rec
				result.Overwritten++
				continue
			}
			index[rec.Key()] = len(result.Records)
			result.Records = append(result.Records, rec)
		}
	}

	if len(result.Records) == 0 {
		return nil, ErrNotRecognized
	}
	return result, nil
}

// FindHeaderRow 返回第一个包含 STAFF 或 NAME 的行，未找到返回 -1
func FindHeaderRow(grid model.Grid) int {
	for rowIdx, row := range grid {
		for _, cell := range row {
			if !cell.Present {
				continue
			}
			if ContainsAny(strings.ToUpper(cell.Value), headerKeywords) {
				return rowIdx
			}
		}
	}
	return -1
}

// FindEmployeeColumn 表头中第一个包含 NAME 的列，未找到时退回第 0 列
func FindEmployeeColumn(header []model.Cell) int {
	for col, cell := range header {
		if cell.Present && strings.Contains(strings.ToUpper(cell.Value), "NAME") {
			return col
		}
	}
	return 0
}

// CarryForwardCalendar 由日期条与星期条生成日历列
//
// 日期为空或非数字的列沿用上一个日期（合并单元格）；第一个数字日期之前的列直接跳过。
func CarryForwardCalendar(dateCells, dayCells []model.Cell) []CalendarColumn {
	var out []CalendarColumn
	for col, cell := range dateCells {
		if date, ok := ParseDayNumber(cell.Text()); ok {
			day := ""
			if col < len(dayCells) {
				day = dayCells[col].Text()
			}
			out = append(out, CalendarColumn{Offset: len(out), Date: date, DayLabel: day})
			continue
		}
		if len(out) == 0 {
			continue
		}
		prev := out[len(out)-1]
		out = append(out, CalendarColumn{Offset: len(out), Date: prev.Date, DayLabel: prev.DayLabel})
	}
	return out
}
