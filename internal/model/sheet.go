package model

// SheetType 工作表类型（用于输入容错识别）
type SheetType string

const (
	SheetTypeUnknown SheetType = "unknown"
	SheetTypeRoster  SheetType = "roster" // 员工 × 日期 排班矩阵
	SheetTypeFlat    SheetType = "flat"   // Nurse Name / Date / Planned / Actual 平铺表
)

// SheetRecognition 单个 sheet 的识别结果
type SheetRecognition struct {
	SheetName     string    `json:"sheetName"`
	Type          SheetType `json:"type"`
	Score         float64   `json:"score"`
	HeaderRow     int       `json:"headerRow"` // -1 表示未找到
	MissingFields []string  `json:"missingFields"`
}

// SheetInfo 工作表概要
type SheetInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"rowCount"`
}
