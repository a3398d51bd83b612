package model

import "time"

// AttendanceEntry 手工录入的出勤流水（只追加）
type AttendanceEntry struct {
	ID        int64     `json:"id"`
	NurseName string    `json:"nurseName"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Ward      string    `json:"ward"`
	CreatedAt time.Time `json:"createdAt"`
}

// RosterUpload 已导入的排班表
type RosterUpload struct {
	ID          string     `json:"id"`
	Kind        RosterKind `json:"kind"`
	Filename    string     `json:"filename"`
	SheetName   string     `json:"sheetName"`
	RecordCount int        `json:"recordCount"`
	Employees   int        `json:"employees"`
	Overwritten int        `json:"overwritten"` // 同一员工同一日期被后续单元格覆盖的次数
	Current     bool       `json:"current"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FlatShiftRow 平铺格式（Nurse Name/Date/Planned/Actual/Ward）的一行
type FlatShiftRow struct {
	NurseName string `json:"nurseName"`
	Date      string `json:"date"`
	Planned   string `json:"planned"`
	Actual    string `json:"actual"`
	Ward      string `json:"ward,omitempty"`
}
