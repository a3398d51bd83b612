package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Deeps-444/Attendance-Tracker/internal/model"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/excel"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/report"
	"github.com/Deeps-444/Attendance-Tracker/internal/util"
)

func newInspectCommand() *cobra.Command {
	var previewRows int
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "列出工作簿中的 sheet 及识别结果",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			sheets, err := p.GetSheets()
			if err != nil {
				return err
			}
			recognized := excel.NewRecognizer().RecognizeWorkbook(p.Sheets())

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SHEET\tROWS\tTYPE\tSCORE\tHEADER ROW\tMISSING")
			for _, s := range sheets {
				r := recognized[s.Name]
				fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\t%d\t%s\n",
					s.Name, s.RowCount, r.Type, r.Score, r.HeaderRow, strings.Join(r.MissingFields, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if previewRows <= 0 {
				return nil
			}
			for _, s := range sheets {
				rows, err := p.GetPreviewRows(s.Name, previewRows)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n[%s]\n", s.Name)
				for _, row := range rows {
					fmt.Fprintln(out, strings.Join(row, " | "))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&previewRows, "preview", 0, "每个 sheet 预览的行数")
	return cmd
}

func newFlatCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "flat FILE",
		Short: "按护士统计平铺表 (Nurse Name/Date/Planned/Actual) 的偏差比例",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			candidates := excel.NewRecognizer().Candidates(p.Sheets(), model.SheetTypeFlat)
			if len(candidates) == 0 {
				return fmt.Errorf("%s: no flat sheet found", args[0])
			}
			rows, err := excel.ParseFlat(candidates[0].Grid)
			if err != nil {
				return fmt.Errorf("%s (%s): %w", args[0], candidates[0].Name, err)
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NURSE\tWARD\tRECORDS\tDEVIATED\tDEVIATION %")
			for _, s := range report.NurseDeviationPercent(rows) {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", s.NurseName, s.Ward, s.Records, s.DeviatedDays, util.FormatPercent(s.DeviationPercent))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if outPath == "" {
				return nil
			}
			f, err := excel.NewExporter().ExportFlatReport(rows)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if err := f.SaveAs(outPath); err != nil {
				return fmt.Errorf("failed to save %s: %w", outPath, err)
			}
			fmt.Fprintf(out, "\n已导出: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "导出工作簿路径 (.xlsx)")
	return cmd
}
