package model

import "strings"

// Cell 单元格值；Present=false 表示单元格缺失（区别于空字符串）
type Cell struct {
	Value   string
	Present bool
}

// Text 返回去除首尾空白后的文本，缺失单元格返回空串
func (c Cell) Text() string {
	if !c.Present {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

// Grid 原始表格（行 × 列），行长度可以不一致
type Grid [][]Cell

// GridFromRows 由字符串行构建 Grid；空字符串视为缺失
//
// excelize.GetRows / xls.ReadAllCells 无法区分空白与空串，这里统一按缺失处理。
func GridFromRows(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = Cell{Value: v, Present: v != ""}
		}
		g[i] = cells
	}
	return g
}

// Width 最宽行的列数
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// At 越界返回缺失单元格
func (g Grid) At(row, col int) Cell {
	if row < 0 || row >= len(g) {
		return Cell{}
	}
	if col < 0 || col >= len(g[row]) {
		return Cell{}
	}
	return g[row][col]
}
