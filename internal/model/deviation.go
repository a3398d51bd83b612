package model

// DeviationType 偏差类型
type DeviationType string

const (
	DeviationNoRecord            DeviationType = "No Record"
	DeviationNone                DeviationType = "No Deviation"
	DeviationAbsence             DeviationType = "Absence"
	DeviationAbsenceWithLeave    DeviationType = "Absence (with leave/off)"
	DeviationUnplannedAttendance DeviationType = "Unplanned Attendance"
	DeviationShiftChange         DeviationType = "Shift Change"
	DeviationMinorChange         DeviationType = "Minor Change"
)

// AllDeviationTypes 全部偏差类型（报表展示顺序）
var AllDeviationTypes = []DeviationType{
	DeviationNone,
	DeviationAbsence,
	DeviationAbsenceWithLeave,
	DeviationUnplannedAttendance,
	DeviationShiftChange,
	DeviationMinorChange,
	DeviationNoRecord,
}

// IsDeviation 是否计为偏差
func (t DeviationType) IsDeviation() bool {
	return t != DeviationNone && t != DeviationNoRecord
}

// IsValid 是否为已知类型
func (t DeviationType) IsValid() bool {
	for _, v := range AllDeviationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// DeviationRecord 计划与实际的关联结果，每次分类时重新计算，不落库
type DeviationRecord struct {
	EmployeeID      string        `json:"Employee_ID"`
	EmployeeName    string        `json:"Employee_Name"`
	Date            int           `json:"Date"`
	PlannedShift    *string       `json:"Shift_Type_Planned"`
	ActualShift     *string       `json:"Shift_Type_Actual"`
	PlannedCategory ShiftCategory `json:"Planned_Category,omitempty"` // 计划缺失时为空
	ActualCategory  ShiftCategory `json:"Actual_Category,omitempty"`  // 实际缺失时为空
	DeviationType   DeviationType `json:"Deviation_Type"`
	HasDeviation    bool          `json:"Has_Deviation"`
}

// Planned 计划班次，缺失返回空串
func (r DeviationRecord) Planned() string {
	if r.PlannedShift == nil {
		return ""
	}
	return *r.PlannedShift
}

// Actual 实际班次，缺失返回空串
func (r DeviationRecord) Actual() string {
	if r.ActualShift == nil {
		return ""
	}
	return *r.ActualShift
}
