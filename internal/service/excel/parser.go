package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// maxXLSRows xls 单表最大读取行数
const maxXLSRows = 100000

// Sheet 已物化的工作表
type Sheet struct {
	Name string
	Grid model.Grid
}

// Parser Excel解析器
//
// 文件一次性读入内存，每个 sheet 转为 model.Grid；.xls 使用 extrame/xls，其余使用 excelize。
type Parser struct {
	sheets []Sheet
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{}
}

// LoadFile 加载Excel文件
func (p *Parser) LoadFile(reader io.Reader, filename string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var sheets []Sheet
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		sheets, err = readXLS(data)
	default:
		sheets, err = readXLSX(data)
	}
	if err != nil {
		return err
	}
	if len(sheets) == 0 {
		return errors.New("no worksheet found")
	}

	p.sheets = sheets
	return nil
}

// Sheets 返回全部工作表（只读使用）
func (p *Parser) Sheets() []Sheet {
	return p.sheets
}

// GetSheets 获取工作表列表
func (p *Parser) GetSheets() ([]model.SheetInfo, error) {
	if p.sheets == nil {
		return nil, errors.New("no file loaded")
	}

	result := make([]model.SheetInfo, 0, len(p.sheets))
	for _, s := range p.sheets {
		result = append(result, model.SheetInfo{
			Name:     s.Name,
			RowCount: len(s.Grid),
		})
	}
	return result, nil
}

// Grid 获取指定工作表
func (p *Parser) Grid(sheet string) (model.Grid, error) {
	if p.sheets == nil {
		return nil, errors.New("no file loaded")
	}
	for _, s := range p.sheets {
		if s.Name == sheet {
			return s.Grid, nil
		}
	}
	return nil, fmt.Errorf("sheet not found: %s", sheet)
}

// GetPreviewRows 获取预览行
func (p *Parser) GetPreviewRows(sheet string, limit int) ([][]string, error) {
	g, err := p.Grid(sheet)
	if err != nil {
		return nil, err
	}

	end := limit
	if end > len(g) {
		end = len(g)
	}

	out := make([][]string, 0, end)
	for _, row := range g[:end] {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = c.Text()
		}
		out = append(out, cells)
	}
	return out, nil
}

func readXLSX(data []byte) ([]Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sheets []Sheet
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			continue
		}
		sheets = append(sheets, Sheet{Name: name, Grid: model.GridFromRows(rows)})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]Sheet, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}

	var sheets []Sheet
	for i := 0; i < workbook.NumSheets(); i++ {
		ws := workbook.GetSheet(i)
		if ws == nil {
			continue
		}

		maxRow := int(ws.MaxRow)
		if maxRow >= maxXLSRows {
			maxRow = maxXLSRows - 1
		}
		rows := make([][]string, 0, maxRow+1)
		for r := 0; r <= maxRow; r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Grid: model.GridFromRows(rows)})
	}
	return sheets, nil
}
