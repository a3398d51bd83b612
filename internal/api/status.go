package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool                `json:"initialized"`    // 计划与实际排班表均已选定
	CurrentPlanned *model.RosterUpload `json:"currentPlanned"` // 当前计划排班表
	CurrentActual  *model.RosterUpload `json:"currentActual"`  // 当前实际排班表
	RosterCount    int                 `json:"rosterCount"`    // 已导入排班表数
	LedgerStatuses []string            `json:"ledgerStatuses"` // 出勤状态
	LastImportTime string              `json:"lastImportTime"` // 最后导入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		CurrentPlanned: h.currentUpload(model.RosterPlanned),
		CurrentActual:  h.currentUpload(model.RosterActual),
		LedgerStatuses: h.ledger.Statuses(),
	}
	resp.Initialized = resp.CurrentPlanned != nil && resp.CurrentActual != nil

	if uploads, err := h.store.ListRosterUploads(""); err == nil {
		resp.RosterCount = len(uploads)
	}
	if logs, err := h.store.ListImportLogs(1); err == nil && len(logs) > 0 {
		resp.LastImportTime = logs[0].CreatedAt.Format("2006-01-02 15:04:05")
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) currentUpload(kind model.RosterKind) *model.RosterUpload {
	id, err := h.store.GetCurrentUpload(kind)
	if err != nil {
		return nil
	}
	upload, err := h.store.GetRosterUpload(id)
	if err != nil {
		return nil
	}
	return upload
}
