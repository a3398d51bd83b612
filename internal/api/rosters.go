package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Deeps-444/Attendance-Tracker/internal/importer"
	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// ImportRoster 导入排班表 (SSE 流式响应)
// POST /api/import/:kind
func (h *Handler) ImportRoster(c *gin.Context) {
	kind := model.RosterKind(c.Param("kind"))
	if !kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "排班表类型只能是 planned 或 actual"})
		return
	}

	uploadedFile, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	// 保存到上传目录
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "创建上传目录失败"})
		return
	}
	savedPath := filepath.Join(h.uploadDir, fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(uploadedFile.Filename)))
	if err := c.SaveUploadedFile(uploadedFile, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	setCurrent := c.DefaultPostForm("setCurrent", "true") == "true"

	sse, ok := newSSEWriter(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	progressChan := h.coordinator.Import(c.Request.Context(), importer.ImportOptions{
		FilePath:         savedPath,
		OriginalFilename: uploadedFile.Filename,
		Kind:             kind,
		SetCurrent:       setCurrent,
	})

	// 流式发送进度事件
	for event := range progressChan {
		sse.send(event)
	}
}

// ListRosters 列出已导入的排班表
// GET /api/rosters?kind=planned
func (h *Handler) ListRosters(c *gin.Context) {
	kind := model.RosterKind(c.Query("kind"))
	if kind != "" && !kind.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "排班表类型只能是 planned 或 actual"})
		return
	}

	uploads, err := h.store.ListRosterUploads(kind)
	if err != nil {
		h.respondError(c, err, "查询排班表失败")
		return
	}
	if uploads == nil {
		uploads = []*model.RosterUpload{}
	}
	c.JSON(http.StatusOK, gin.H{"items": uploads})
}

// GetRoster 获取排班表及其班次记录
// GET /api/rosters/:id
func (h *Handler) GetRoster(c *gin.Context) {
	id := c.Param("id")
	upload, err := h.store.GetRosterUpload(id)
	if err != nil {
		h.respondError(c, err, "查询排班表失败")
		return
	}
	records, err := h.store.GetShiftRecords(id)
	if err != nil {
		h.respondError(c, err, "查询班次记录失败")
		return
	}
	if records == nil {
		records = []model.ShiftRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"upload":  upload,
		"records": records,
	})
}

// SelectRoster 设为当前排班表
// POST /api/rosters/:id/select
func (h *Handler) SelectRoster(c *gin.Context) {
	id := c.Param("id")
	upload, err := h.store.GetRosterUpload(id)
	if err != nil {
		h.respondError(c, err, "查询排班表失败")
		return
	}
	if err := h.store.SetCurrentUpload(upload.Kind, id); err != nil {
		h.respondError(c, err, "设置当前排班表失败")
		return
	}
	upload.Current = true
	c.JSON(http.StatusOK, upload)
}

// DeleteRoster 删除排班表
// DELETE /api/rosters/:id
func (h *Handler) DeleteRoster(c *gin.Context) {
	if err := h.store.DeleteRosterUpload(c.Param("id")); err != nil {
		h.respondError(c, err, "删除排班表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// ListImportLogs 最近的导入日志
// GET /api/import-logs?limit=20
func (h *Handler) ListImportLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		h.respondError(c, err, "查询导入日志失败")
		return
	}
	if logs == nil {
		logs = []model.ImportLog{}
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}
