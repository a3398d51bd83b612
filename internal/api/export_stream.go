package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Deeps-444/Attendance-Tracker/internal/service/analysis"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExportStreamRequest 导出请求
type ExportStreamRequest struct {
	OnlyDeviations bool `json:"onlyDeviations"`
}

// ExportStream 导出偏差报告（SSE 进度 + 完成后提供下载地址）
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	var req ExportStreamRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求参数"})
			return
		}
	}

	res, err := h.analysis.Current(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "计算偏差失败")
		return
	}

	sse, ok := newSSEWriter(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}
	send := func(event exportProgressEvent) {
		event.Timestamp = time.Now()
		sse.send(event)
	}

	send(exportProgressEvent{
		Type:    "start",
		Message: "开始导出",
		Data: map[string]any{
			"records": len(res.Records),
		},
	})

	lastPercent := -1
	progressFn := func(p excel.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:    "progress",
			Message: p.Stage,
			Data:    map[string]any{"percent": p.Percent},
		})
	}

	file, err := h.exporter.ExportDeviations(res.Records, excel.ExportOptions{
		OnlyDeviations: req.OnlyDeviations,
		Progress:       progressFn,
	})
	if err != nil {
		send(exportProgressEvent{
			Type:    "error",
			Message: "导出失败: " + err.Error(),
			Data:    map[string]any{},
		})
		return
	}
	defer file.Close()

	tempPath := filepath.Join(h.exportDir, fmt.Sprintf("attendance_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		send(exportProgressEvent{
			Type:    "error",
			Message: "写入导出文件失败: " + err.Error(),
			Data:    map[string]any{},
		})
		_ = os.Remove(tempPath)
		return
	}

	token := h.downloads.put(tempPath, exportFilename(res), 10*time.Minute)
	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/export/download/" + token,
		},
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", buildContentDisposition(item.filename))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)
}

func exportFilename(res *analysis.Result) string {
	if res.Planned != nil && res.Planned.Filename != "" {
		base := res.Planned.Filename
		return "deviation-report-" + base[:len(base)-len(filepath.Ext(base))] + ".xlsx"
	}
	return "deviation-report.xlsx"
}

// buildContentDisposition 同时给出 ASCII 文件名与 UTF-8 文件名
func buildContentDisposition(filename string) string {
	ascii := make([]rune, 0, len(filename))
	for _, r := range filename {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			r = '_'
		}
		ascii = append(ascii, r)
	}
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", string(ascii), url.PathEscape(filename))
}
