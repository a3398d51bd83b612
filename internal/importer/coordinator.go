package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/Deeps-444/Attendance-Tracker/internal/logger"
	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

// 导入状态
const (
	StatusImported      = "imported"
	StatusSkipped       = "skipped"
	StatusNotRecognized = "not_recognized"
	StatusError         = "error"
)

// Coordinator 导入协调器
type Coordinator struct {
	store      *store.Store
	recognizer *excel.Recognizer
	log        *logger.Logger
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store *store.Store) *Coordinator {
	return &Coordinator{
		store:      store,
		recognizer: excel.NewRecognizer(),
		log:        logger.Named("importer"),
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FilePath         string
	OriginalFilename string           // 上传时的文件名；为空时取 FilePath 的文件名
	Kind             model.RosterKind // planned/actual
	SetCurrent       bool             // 导入成功后设为当前排班表
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/sheet_start/sheet_done/warning/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// ImportContext 导入上下文
type ImportContext struct {
	Ctx          context.Context
	Options      ImportOptions
	StartTime    time.Time
	LogID        int64
	Report       *parser.ImportReport
	ProgressChan chan ProgressEvent
}

// Import 执行导入，返回进度通道
//
// 通道在导入结束后关闭；最后一个事件为 done 或 error。
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(ctx, opts, progressChan)
	}()

	return progressChan
}

// doImport 执行导入逻辑
func (c *Coordinator) doImport(ctx context.Context, opts ImportOptions, progressChan chan ProgressEvent) {
	filename := opts.OriginalFilename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}

	ictx := &ImportContext{
		Ctx:          ctx,
		Options:      opts,
		StartTime:    time.Now(),
		ProgressChan: progressChan,
		Report: &parser.ImportReport{
			Filename: filename,
			Kind:     opts.Kind,
			Sheets:   []parser.ParseResult{},
		},
	}

	// 读取器内部 panic 转为 error 事件，避免拖垮整个服务进程
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("stack", string(debug.Stack())).Msgf("roster import panicked: %v", r)
			c.fail(ictx, fmt.Errorf("导入时发生内部错误: %v", r))
		}
	}()

	c.sendProgress(ictx, ProgressEvent{
		Type:    "start",
		Message: "开始导入排班表",
		Data: map[string]string{
			"filename": filename,
			"kind":     string(opts.Kind),
		},
	})

	if !opts.Kind.IsValid() {
		c.fail(ictx, fmt.Errorf("未知的排班表类型: %q", opts.Kind))
		return
	}

	var fileSize int64
	if st, err := os.Stat(opts.FilePath); err == nil {
		fileSize = st.Size()
	}
	logID, err := c.store.CreateImportLog(filename, opts.FilePath, fileSize, opts.Kind)
	if err != nil {
		c.fail(ictx, err)
		return
	}
	ictx.LogID = logID

	// 打开 Excel 文件
	f, err := os.Open(opts.FilePath)
	if err != nil {
		c.fail(ictx, fmt.Errorf("打开文件失败: %w", err))
		return
	}
	wb := excel.NewParser()
	err = wb.LoadFile(f, filename)
	_ = f.Close()
	if err != nil {
		c.fail(ictx, fmt.Errorf("读取工作簿失败: %w", err))
		return
	}

	sheets := wb.Sheets()
	ictx.Report.TotalSheets = len(sheets)
	c.sendProgress(ictx, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("发现 %d 个 Sheet", len(sheets)),
		Data: map[string]interface{}{
			"total_sheets": len(sheets),
		},
	})

	picked, ok := c.recognizer.PickRosterSheet(sheets)
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			c.fail(ictx, err)
			return
		}
		if ok && sheet.Name == picked.Name {
			if !c.processRoster(ictx, sheet) {
				return
			}
			continue
		}
		c.skipSheet(ictx, sheet)
	}

	if ictx.Report.ImportedSheets == 0 {
		ictx.Report.Status = StatusNotRecognized
		c.sendProgress(ictx, ProgressEvent{
			Type:    "warning",
			Message: "未识别到排班表：需要包含 STAFF/NAME 表头及其下方的日期行",
		})
	} else {
		ictx.Report.Status = StatusImported
	}

	c.finish(ictx)
}

// processRoster 归一化并保存排班表 sheet；返回 false 表示导入已终止
func (c *Coordinator) processRoster(ictx *ImportContext, sheet excel.Sheet) bool {
	sheetStartTime := time.Now()

	c.sendProgress(ictx, ProgressEvent{
		Type:    "sheet_start",
		Message: fmt.Sprintf("正在解析 Sheet: %s", sheet.Name),
		Data: map[string]string{
			"sheet_name": sheet.Name,
		},
	})

	result, err := parser.Normalize(sheet.Grid)
	if errors.Is(err, parser.ErrNotRecognized) {
		c.recordSheetResult(ictx, parser.ParseResult{
			SheetName: sheet.Name,
			SheetType: model.SheetTypeRoster,
			Status:    StatusNotRecognized,
			Errors:    []string{"未解析出任何班次记录"},
			Duration:  time.Since(sheetStartTime),
		})
		return true
	}
	if err != nil {
		c.fail(ictx, err)
		return false
	}

	upload := &model.RosterUpload{
		ID:          uuid.NewString(),
		Kind:        ictx.Options.Kind,
		Filename:    ictx.Report.Filename,
		SheetName:   sheet.Name,
		RecordCount: len(result.Records),
		Employees:   result.Employees(),
		Overwritten: result.Overwritten,
	}
	if err := c.store.CreateRosterUpload(upload, result.Records); err != nil {
		c.fail(ictx, err)
		return false
	}
	ictx.Report.UploadID = upload.ID
	ictx.Report.Employees = upload.Employees

	if ictx.Options.SetCurrent {
		if err := c.store.SetCurrentUpload(upload.Kind, upload.ID); err != nil {
			c.fail(ictx, err)
			return false
		}
	}

	if result.Overwritten > 0 {
		c.sendProgress(ictx, ProgressEvent{
			Type:    "warning",
			Message: fmt.Sprintf("Sheet \"%s\" 中有 %d 个重复的 (员工, 日期)，以后出现的单元格为准", sheet.Name, result.Overwritten),
		})
	}

	c.recordSheetResult(ictx, parser.ParseResult{
		SheetName:    sheet.Name,
		SheetType:    model.SheetTypeRoster,
		Status:       StatusImported,
		ImportedRows: len(result.Records),
		Overwritten:  result.Overwritten,
		Duration:     time.Since(sheetStartTime),
	})

	c.log.Info().
		Str("upload_id", upload.ID).
		Str("kind", string(upload.Kind)).
		Str("sheet", sheet.Name).
		Int("records", upload.RecordCount).
		Int("employees", upload.Employees).
		Msg("roster imported")
	return true
}

// skipSheet 非排班表 sheet 只记录识别结果
func (c *Coordinator) skipSheet(ictx *ImportContext, sheet excel.Sheet) {
	results := c.recognizer.RecognizeWorkbook([]excel.Sheet{sheet})
	recognition := results[sheet.Name]

	c.recordSheetResult(ictx, parser.ParseResult{
		SheetName: sheet.Name,
		SheetType: recognition.Type,
		Status:    StatusSkipped,
	})
	c.sendProgress(ictx, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("跳过 Sheet: %s (%s)", sheet.Name, recognition.Type),
		Data: map[string]interface{}{
			"sheet_name": sheet.Name,
			"sheet_type": recognition.Type,
			"score":      recognition.Score,
		},
	})
}

// recordSheetResult 记录 Sheet 处理结果
func (c *Coordinator) recordSheetResult(ictx *ImportContext, result parser.ParseResult) {
	ictx.Report.Sheets = append(ictx.Report.Sheets, result)

	switch result.Status {
	case StatusImported:
		ictx.Report.ImportedSheets++
		ictx.Report.ImportedRows += result.ImportedRows
	case StatusSkipped, StatusNotRecognized:
		ictx.Report.SkippedSheets++
	}

	c.sendProgress(ictx, ProgressEvent{
		Type:    "sheet_done",
		Message: fmt.Sprintf("Sheet %s: %s", result.SheetName, result.Status),
		Data:    result,
	})
}

// fail 发送 error 事件并记录日志
func (c *Coordinator) fail(ictx *ImportContext, err error) {
	ictx.Report.Status = StatusError
	c.log.Error().Err(err).Str("filename", ictx.Report.Filename).Msg("roster import failed")
	c.finishLog(ictx, err.Error())
	c.sendProgress(ictx, ProgressEvent{
		Type:    "error",
		Message: err.Error(),
	})
}

// finish 发送 done 事件
func (c *Coordinator) finish(ictx *ImportContext) {
	ictx.Report.Duration = time.Since(ictx.StartTime)
	c.finishLog(ictx, "")
	c.sendProgress(ictx, ProgressEvent{
		Type:    "done",
		Message: "导入完成",
		Data:    ictx.Report,
	})
}

func (c *Coordinator) finishLog(ictx *ImportContext, errorMessage string) {
	if ictx.LogID == 0 {
		return
	}
	r := ictx.Report
	if err := c.store.UpdateImportLog(ictx.LogID, r.UploadID, r.TotalSheets, r.ImportedSheets, r.SkippedSheets, r.ImportedRows, r.Status, errorMessage); err != nil {
		c.log.Warn().Err(err).Int64("import_log_id", ictx.LogID).Msg("update import log failed")
	}
}

// sendProgress 发送进度事件；接收方离开（ctx 取消）后丢弃
func (c *Coordinator) sendProgress(ictx *ImportContext, event ProgressEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case ictx.ProgressChan <- event:
	case <-ictx.Ctx.Done():
	}
}
