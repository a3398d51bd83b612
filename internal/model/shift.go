package model

// ShiftCategory 班次类别
type ShiftCategory string

const (
	CategoryWorking ShiftCategory = "Working"
	CategoryOff     ShiftCategory = "Off"
	CategoryLeave   ShiftCategory = "Leave"
	CategorySpecial ShiftCategory = "Special"
	CategoryOther   ShiftCategory = "Other"
)

// IsValid 是否为已知类别
func (c ShiftCategory) IsValid() bool {
	switch c {
	case CategoryWorking, CategoryOff, CategoryLeave, CategorySpecial, CategoryOther:
		return true
	}
	return false
}

// RosterKind 排班表来源
type RosterKind string

const (
	RosterPlanned RosterKind = "planned" // 计划排班
	RosterActual  RosterKind = "actual"  // 实际出勤
)

// IsValid 是否为已知来源
func (k RosterKind) IsValid() bool {
	return k == RosterPlanned || k == RosterActual
}

// ShiftRecord 单个员工某日的班次
type ShiftRecord struct {
	EmployeeID   string `json:"Employee_ID"`   // 归一化姓名，仅用于关联
	EmployeeName string `json:"Employee_Name"` // 展示用姓名（已去空白）
	Date         int    `json:"Date"`          // 月内日期
	DayLabel     string `json:"Day"`
	ShiftCode    string `json:"Shift_Type"`
}

// ShiftKey (员工, 日期) 关联键
type ShiftKey struct {
	EmployeeID string
	Date       int
}

// Key 返回关联键
func (r ShiftRecord) Key() ShiftKey {
	return ShiftKey{EmployeeID: r.EmployeeID, Date: r.Date}
}
