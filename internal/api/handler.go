package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Deeps-444/Attendance-Tracker/internal/importer"
	"github.com/Deeps-444/Attendance-Tracker/internal/logger"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/analysis"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/attendance"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/deviation"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

// Handler API 处理器
type Handler struct {
	store       *store.Store
	coordinator *importer.Coordinator
	analysis    *analysis.Service
	ledger      *attendance.Service
	exporter    *excel.Exporter
	downloads   *exportDownloadStore
	uploadDir   string
	exportDir   string
	log         *logger.Logger
}

// NewHandler 创建 API 处理器；uploadDir 保存上传文件，exportDir 暂存待下载的导出文件
func NewHandler(st *store.Store, engine *deviation.Engine, ledger *attendance.Service, uploadDir, exportDir string) *Handler {
	return &Handler{
		store:       st,
		coordinator: importer.NewCoordinator(st),
		analysis:    analysis.NewService(st, engine),
		ledger:      ledger,
		exporter:    excel.NewExporter(),
		downloads:   newExportDownloadStore(),
		uploadDir:   uploadDir,
		exportDir:   exportDir,
		log:         logger.Named("api"),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 排班表
	router.POST("/import/:kind", h.ImportRoster)
	router.GET("/rosters", h.ListRosters)
	router.GET("/rosters/:id", h.GetRoster)
	router.POST("/rosters/:id/select", h.SelectRoster)
	router.DELETE("/rosters/:id", h.DeleteRoster)
	router.GET("/import-logs", h.ListImportLogs)

	// 偏差分析
	router.GET("/deviations", h.ListDeviations)
	router.GET("/analysis/:view", h.GetAnalysis)
	router.GET("/shift-codes", h.GetShiftCodes)

	// 数据导出
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)

	// 出勤流水
	router.GET("/attendance", h.ListAttendance)
	router.POST("/attendance", h.AppendAttendance)
	router.GET("/attendance/export", h.ExportAttendance)
}
