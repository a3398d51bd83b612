package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/attendance"
)

func ledgerListOptions(c *gin.Context) attendance.ListOptions {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return attendance.ListOptions{
		NurseName: c.Query("name"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		Limit:     limit,
	}
}

// ListAttendance 查询出勤流水
// GET /api/attendance?name=&from=&to=&limit=
func (h *Handler) ListAttendance(c *gin.Context) {
	entries, err := h.ledger.List(c.Request.Context(), ledgerListOptions(c))
	if err != nil {
		h.respondError(c, err, "查询出勤流水失败")
		return
	}
	if entries == nil {
		entries = []model.AttendanceEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// AppendAttendance 追加出勤流水
// POST /api/attendance
func (h *Handler) AppendAttendance(c *gin.Context) {
	var req attendance.Entry
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
		return
	}

	entry, err := h.ledger.Append(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "保存出勤流水失败")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ExportAttendance 导出出勤流水
// GET /api/attendance/export
func (h *Handler) ExportAttendance(c *gin.Context) {
	file, err := h.ledger.Export(c.Request.Context(), ledgerListOptions(c))
	if err != nil {
		h.respondError(c, err, "导出出勤流水失败")
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildContentDisposition("attendance-"+time.Now().Format("20060102")+".xlsx"))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("write attendance export failed")
	}
}
