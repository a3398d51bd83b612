// Package attendance 手工出勤流水：校验后追加写入，支持查询与导出
package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

const dateLayout = "2006-01-02"

// ErrInvalidEntry 流水字段校验失败
var ErrInvalidEntry = errors.New("invalid attendance entry")

// Ledger 流水存储
type Ledger interface {
	AppendAttendance(entry model.AttendanceEntry) (*model.AttendanceEntry, error)
	ListAttendance(opts store.AttendanceQueryOptions) ([]model.AttendanceEntry, error)
}

// Entry 录入请求
type Entry struct {
	NurseName string `json:"nurseName" validate:"required,max=100"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"required,ledger_status"`
	Ward      string `json:"ward" validate:"max=50"`
}

// ListOptions 查询条件，日期格式 2006-01-02，均可为空
type ListOptions struct {
	NurseName string
	From      string
	To        string
	Limit     int
}

// Service 出勤流水服务
type Service struct {
	ledger   Ledger
	exporter *excel.Exporter
	validate *validator.Validate
	statuses []string
}

// NewService 创建服务；statuses 为允许的出勤状态
func NewService(ledger Ledger, statuses []string) (*Service, error) {
	s := &Service{
		ledger:   ledger,
		exporter: excel.NewExporter(),
		validate: validator.New(),
		statuses: append([]string(nil), statuses...),
	}
	if err := s.validate.RegisterValidation("ledger_status", func(fl validator.FieldLevel) bool {
		_, ok := s.canonicalStatus(fl.Field().String())
		return ok
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Statuses 允许的出勤状态
func (s *Service) Statuses() []string {
	return append([]string(nil), s.statuses...)
}

func (s *Service) canonicalStatus(v string) (string, bool) {
	v = strings.TrimSpace(v)
	for _, st := range s.statuses {
		if strings.EqualFold(st, v) {
			return st, true
		}
	}
	return "", false
}

// Append 校验并追加一条流水
func (s *Service) Append(ctx context.Context, in Entry) (*model.AttendanceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in.NurseName = strings.TrimSpace(in.NurseName)
	in.Date = strings.TrimSpace(in.Date)
	in.Ward = strings.TrimSpace(in.Ward)
	if err := s.validate.Struct(in); err != nil {
		return nil, describe(err)
	}

	date, _ := time.Parse(dateLayout, in.Date)
	status, _ := s.canonicalStatus(in.Status)
	return s.ledger.AppendAttendance(model.AttendanceEntry{
		NurseName: in.NurseName,
		Date:      date,
		Status:    status,
		Ward:      in.Ward,
	})
}

// List 查询流水（写入顺序）
func (s *Service) List(ctx context.Context, opts ListOptions) ([]model.AttendanceEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := store.AttendanceQueryOptions{
		NurseName: strings.TrimSpace(opts.NurseName),
		Limit:     opts.Limit,
	}
	var err error
	if q.From, err = parseOptionalDate(opts.From); err != nil {
		return nil, err
	}
	if q.To, err = parseOptionalDate(opts.To); err != nil {
		return nil, err
	}
	return s.ledger.ListAttendance(q)
}

// Export 导出流水为 xlsx
func (s *Service) Export(ctx context.Context, opts ListOptions) (*excelize.File, error) {
	entries, err := s.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.exporter.ExportAttendance(entries)
}

func parseOptionalDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidEntry, v)
	}
	return &t, nil
}

// describe 将 validator 错误转为可读消息
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "datetime":
			msgs = append(msgs, fe.Field()+" must be YYYY-MM-DD")
		case "ledger_status":
			msgs = append(msgs, fmt.Sprintf("%s %q is not allowed", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidEntry, strings.Join(msgs, "; "))
}
