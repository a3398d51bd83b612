package report

import (
	"sort"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// NurseDeviation 平铺表中单个护士的偏差比例
type NurseDeviation struct {
	NurseName        string  `json:"nurseName"`
	Ward             string  `json:"ward,omitempty"`
	Records          int     `json:"records"`
	DeviatedDays     int     `json:"deviatedDays"`
	DeviationPercent float64 `json:"deviationPercent"`
}

// NurseDeviationPercent 计划与实际不一致的天数占比，按护士姓名排序
//
// 平铺表逐行比较 Planned 与 Actual 原文，不做班次分类。
func NurseDeviationPercent(rows []model.FlatShiftRow) []NurseDeviation {
	byName := make(map[string]*NurseDeviation)
	for _, row := range rows {
		if row.NurseName == "" {
			continue
		}
		nd, ok := byName[row.NurseName]
		if !ok {
			nd = &NurseDeviation{NurseName: row.NurseName}
			byName[row.NurseName] = nd
		}
		if nd.Ward == "" {
			nd.Ward = row.Ward
		}
		nd.Records++
		if row.Planned != row.Actual {
			nd.DeviatedDays++
		}
	}

	out := make([]NurseDeviation, 0, len(byName))
	for _, nd := range byName {
		nd.DeviationPercent = Percent(nd.DeviatedDays, nd.Records)
		out = append(out, *nd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NurseName < out[j].NurseName })
	return out
}
