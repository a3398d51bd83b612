// Package report 汇总偏差记录，供图表与导出使用
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// TypeCount 偏差类型计数
type TypeCount struct {
	Type  model.DeviationType `json:"Deviation_Type"`
	Count int                 `json:"Count"`
}

// DateCount 日期计数
type DateCount struct {
	Date  int `json:"Date"`
	Count int `json:"Count"`
}

// DateTypeCount 日期 × 偏差类型计数
type DateTypeCount struct {
	Date  int                 `json:"Date"`
	Type  model.DeviationType `json:"Deviation_Type"`
	Count int                 `json:"Count"`
}

// EmployeeStat 员工遵守率
type EmployeeStat struct {
	EmployeeName    string  `json:"Employee_Name"`
	TotalDeviations int     `json:"Total_Deviations"`
	TotalShifts     int     `json:"Total_Shifts"`
	AdherenceRate   float64 `json:"Adherence_Rate"` // 百分比，保留两位小数
}

// ShiftCount 班次代码计数
type ShiftCount struct {
	ShiftType string `json:"Shift_Type"`
	Count     int    `json:"Count"`
}

// Summary 概览
type Summary struct {
	TotalRecords    int                         `json:"totalRecords"`
	TotalDeviations int                         `json:"totalDeviations"`
	Employees       int                         `json:"employees"`
	ByType          map[model.DeviationType]int `json:"byType"`
}

// withoutNoRecord 过滤掉 No Record
func withoutNoRecord(records []model.DeviationRecord) []model.DeviationRecord {
	out := make([]model.DeviationRecord, 0, len(records))
	for _, r := range records {
		if r.DeviationType != model.DeviationNoRecord {
			out = append(out, r)
		}
	}
	return out
}

// TypeDistribution 各偏差类型数量（不含 No Record），按数量倒序
func TypeDistribution(records []model.DeviationRecord) []TypeCount {
	counts := make(map[model.DeviationType]int)
	for _, r := range withoutNoRecord(records) {
		counts[r.DeviationType]++
	}

	out := make([]TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// DailyTrend 每日偏差数，按日期升序；没有偏差时返回空
func DailyTrend(records []model.DeviationRecord) []DateCount {
	counts := make(map[int]int)
	for _, r := range records {
		if r.HasDeviation {
			counts[r.Date]++
		}
	}

	out := make([]DateCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DateCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DateBreakdown 日期 × 偏差类型计数（不含 No Record）
func DateBreakdown(records []model.DeviationRecord) []DateTypeCount {
	type key struct {
		date int
		t    model.DeviationType
	}
	counts := make(map[key]int)
	for _, r := range withoutNoRecord(records) {
		counts[key{r.Date, r.DeviationType}]++
	}

	out := make([]DateTypeCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, DateTypeCount{Date: k.date, Type: k.t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// EmployeePerformance 员工遵守率，按遵守率升序（最差在前）
func EmployeePerformance(records []model.DeviationRecord) []EmployeeStat {
	stats := make(map[string]*EmployeeStat)
	order := make([]string, 0)
	for _, r := range withoutNoRecord(records) {
		s, ok := stats[r.EmployeeName]
		if !ok {
			s = &EmployeeStat{EmployeeName: r.EmployeeName}
			stats[r.EmployeeName] = s
			order = append(order, r.EmployeeName)
		}
		s.TotalShifts++
		if r.HasDeviation {
			s.TotalDeviations++
		}
	}

	out := make([]EmployeeStat, 0, len(order))
	for _, name := range order {
		s := stats[name]
		s.AdherenceRate = Percent(s.TotalShifts-s.TotalDeviations, s.TotalShifts)
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AdherenceRate != out[j].AdherenceRate {
			return out[i].AdherenceRate < out[j].AdherenceRate
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	return out
}

// PlannedShiftDeviations 按计划班次统计偏差数（计划缺失的不计），按数量倒序
func PlannedShiftDeviations(records []model.DeviationRecord) []ShiftCount {
	counts := make(map[string]int)
	for _, r := range records {
		if !r.HasDeviation || r.PlannedShift == nil {
			continue
		}
		counts[*r.PlannedShift]++
	}
	return sortedShiftCounts(counts)
}

// ActualShiftDistribution 实际班次分布（不含 No Record 与缺失），按数量倒序
func ActualShiftDistribution(records []model.DeviationRecord) []ShiftCount {
	counts := make(map[string]int)
	for _, r := range withoutNoRecord(records) {
		if r.ActualShift == nil {
			continue
		}
		counts[*r.ActualShift]++
	}
	return sortedShiftCounts(counts)
}

func sortedShiftCounts(counts map[string]int) []ShiftCount {
	out := make([]ShiftCount, 0, len(counts))
	for code, n := range counts {
		out = append(out, ShiftCount{ShiftType: code, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ShiftType < out[j].ShiftType
	})
	return out
}

// Summarize 概览统计
func Summarize(records []model.DeviationRecord) Summary {
	s := Summary{
		TotalRecords: len(records),
		ByType:       make(map[model.DeviationType]int),
	}
	employees := make(map[string]struct{})
	for _, r := range records {
		s.ByType[r.DeviationType]++
		if r.HasDeviation {
			s.TotalDeviations++
		}
		employees[r.EmployeeID] = struct{}{}
	}
	s.Employees = len(employees)
	return s
}

// Percent part/total × 100，四舍五入到两位小数；total 为 0 时返回 0
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
	f, _ := v.Float64()
	return f
}
