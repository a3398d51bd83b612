package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/analysis"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/report"
)

// filterFromQuery 解析 employee/type/onlyDeviations 查询参数
func filterFromQuery(c *gin.Context) (analysis.Filter, bool) {
	f := analysis.Filter{
		Employee:       c.Query("employee"),
		Type:           model.DeviationType(c.Query("type")),
		OnlyDeviations: c.Query("onlyDeviations") == "true",
	}
	if f.Type != "" && !f.Type.IsValid() {
		return f, false
	}
	return f, true
}

// ListDeviations 偏差明细
// GET /api/deviations?employee=&type=&onlyDeviations=
func (h *Handler) ListDeviations(c *gin.Context) {
	filter, ok := filterFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的偏差类型"})
		return
	}

	res, err := h.analysis.Current(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "计算偏差失败")
		return
	}

	records := analysis.Apply(res.Records, filter)
	c.JSON(http.StatusOK, gin.H{
		"planned": res.Planned,
		"actual":  res.Actual,
		"total":   len(records),
		"items":   records,
	})
}

// GetAnalysis 图表数据
// GET /api/analysis/:view
func (h *Handler) GetAnalysis(c *gin.Context) {
	view := c.Param("view")
	build, ok := analysisViews[view]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "未知的分析视图: " + view})
		return
	}

	filter, ok := filterFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的偏差类型"})
		return
	}

	res, err := h.analysis.Current(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "计算偏差失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"view": view,
		"data": build(analysis.Apply(res.Records, filter)),
	})
}

var analysisViews = map[string]func([]model.DeviationRecord) interface{}{
	"types":        func(r []model.DeviationRecord) interface{} { return nonNil(report.TypeDistribution(r)) },
	"trend":        func(r []model.DeviationRecord) interface{} { return nonNil(report.DailyTrend(r)) },
	"dates":        func(r []model.DeviationRecord) interface{} { return nonNil(report.DateBreakdown(r)) },
	"employees":    func(r []model.DeviationRecord) interface{} { return nonNil(report.EmployeePerformance(r)) },
	"shifts":       func(r []model.DeviationRecord) interface{} { return nonNil(report.PlannedShiftDeviations(r)) },
	"distribution": func(r []model.DeviationRecord) interface{} { return nonNil(report.ActualShiftDistribution(r)) },
	"summary":      func(r []model.DeviationRecord) interface{} { return report.Summarize(r) },
}

// nonNil 空结果序列化为 [] 而不是 null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// GetShiftCodes 当前生效的班次词表
// GET /api/shift-codes
func (h *Handler) GetShiftCodes(c *gin.Context) {
	c.JSON(http.StatusOK, h.analysis.Engine().Vocabulary())
}
