package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Deeps-444/Attendance-Tracker/internal/logger"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/analysis"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/attendance"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

// respondError 按错误类型映射 HTTP 状态码
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在"})
	case errors.Is(err, analysis.ErrMissingRoster):
		c.JSON(http.StatusConflict, gin.H{"error": "请先导入并选择计划排班表与实际排班表"})
	case errors.Is(err, attendance.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		logger.C(c.Request.Context()).Error().Err(err).Str("component", "api").Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
