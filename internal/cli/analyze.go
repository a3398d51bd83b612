package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Deeps-444/Attendance-Tracker/internal/logger"
	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/analysis"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/deviation"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/report"
	memstore "github.com/Deeps-444/Attendance-Tracker/internal/service/store"
	"github.com/Deeps-444/Attendance-Tracker/internal/util"
)

type analyzeOptions struct {
	planned        string
	actual         string
	out            string
	onlyDeviations bool
}

func newAnalyzeCommand(global *globalOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "比较计划与实际排班并输出偏差",
		Example: `  attendance analyze --planned planned.xlsx --actual actual.xlsx
  attendance analyze --planned planned.xls --actual actual.xls --out deviations.xlsx --only-deviations`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.planned, "planned", "", "计划排班表 (.xlsx/.xls)")
	cmd.Flags().StringVar(&opts.actual, "actual", "", "实际排班表 (.xlsx/.xls)")
	cmd.Flags().StringVar(&opts.out, "out", "", "导出偏差工作簿路径 (.xlsx)")
	cmd.Flags().BoolVar(&opts.onlyDeviations, "only-deviations", false, "只输出存在偏差的记录")
	_ = cmd.MarkFlagRequired("planned")
	_ = cmd.MarkFlagRequired("actual")
	return cmd
}

func runAnalyze(cmd *cobra.Command, global *globalOptions, opts *analyzeOptions) error {
	cfg, _, err := global.loadConfig()
	if err != nil {
		return err
	}
	log := logger.Named("analyze")

	mem := memstore.NewMemoryStore()
	for _, in := range []struct {
		kind model.RosterKind
		path string
	}{
		{model.RosterPlanned, opts.planned},
		{model.RosterActual, opts.actual},
	} {
		sheetName, res, err := loadRoster(in.path)
		if err != nil {
			return err
		}
		if _, err := mem.AddRoster(model.RosterUpload{
			Kind:        in.kind,
			Filename:    filepath.Base(in.path),
			SheetName:   sheetName,
			Employees:   res.Employees(),
			Overwritten: res.Overwritten,
		}, res.Records); err != nil {
			return err
		}
		log.Debug().
			Str("kind", string(in.kind)).
			Str("sheet", sheetName).
			Int("records", len(res.Records)).
			Int("overwritten", res.Overwritten).
			Msg("roster normalized")
	}

	result, err := analysis.NewService(mem, deviation.NewEngine(cfg.Shifts)).Current(cmd.Context())
	if err != nil {
		return err
	}
	records := result.Records

	out := cmd.OutOrStdout()
	shown := analysis.Apply(records, analysis.Filter{OnlyDeviations: opts.onlyDeviations})
	if err := printDeviations(out, shown); err != nil {
		return err
	}
	if err := printSummary(out, records); err != nil {
		return err
	}

	if opts.out == "" {
		return nil
	}
	f, err := excel.NewExporter().ExportDeviations(records, excel.ExportOptions{OnlyDeviations: opts.onlyDeviations})
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.SaveAs(opts.out); err != nil {
		return fmt.Errorf("failed to save %s: %w", opts.out, err)
	}
	fmt.Fprintf(out, "\n已导出: %s\n", opts.out)
	return nil
}

// openWorkbook 读取并物化整个工作簿
func openWorkbook(path string) (*excel.Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	p := excel.NewParser()
	if err := p.LoadFile(file, filepath.Base(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// loadRoster 读取文件中得分最高的排班矩阵 sheet 并归一化
func loadRoster(path string) (string, *parser.NormalizeResult, error) {
	p, err := openWorkbook(path)
	if err != nil {
		return "", nil, err
	}
	sheet, ok := excel.NewRecognizer().PickRosterSheet(p.Sheets())
	if !ok {
		return "", nil, fmt.Errorf("%s: %w", path, parser.ErrNotRecognized)
	}
	res, err := parser.Normalize(sheet.Grid)
	if err != nil {
		return "", nil, fmt.Errorf("%s (%s): %w", path, sheet.Name, err)
	}
	return sheet.Name, res, nil
}

func printDeviations(w io.Writer, records []model.DeviationRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMPLOYEE\tDATE\tPLANNED\tACTUAL\tDEVIATION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			r.EmployeeName, r.Date, orDash(r.Planned()), orDash(r.Actual()), r.DeviationType)
	}
	return tw.Flush()
}

func printSummary(w io.Writer, records []model.DeviationRecord) error {
	s := report.Summarize(records)
	fmt.Fprintf(w, "\n记录数: %d  偏差数: %d  员工数: %d\n", s.TotalRecords, s.TotalDeviations, s.Employees)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nDEVIATION TYPE\tCOUNT")
	for _, tc := range report.TypeDistribution(records) {
		fmt.Fprintf(tw, "%s\t%d\n", tc.Type, tc.Count)
	}
	fmt.Fprintln(tw, "\nEMPLOYEE\tDEVIATIONS\tSHIFTS\tADHERENCE")
	for _, e := range report.EmployeePerformance(records) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", e.EmployeeName, e.TotalDeviations, e.TotalShifts, util.FormatPercent(e.AdherenceRate))
	}
	return tw.Flush()
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
