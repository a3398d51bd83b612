package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Deeps-444/Attendance-Tracker/internal/config"
	"github.com/Deeps-444/Attendance-Tracker/internal/service/attendance"
	"github.com/Deeps-444/Attendance-Tracker/internal/store"
)

type ledgerOptions struct {
	dataDir string
}

func newLedgerCommand(global *globalOptions) *cobra.Command {
	opts := &ledgerOptions{}
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "手工出勤流水",
	}
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "数据目录 (覆盖配置文件)")

	cmd.AddCommand(
		newLedgerAddCommand(global, opts),
		newLedgerListCommand(global, opts),
		newLedgerExportCommand(global, opts),
	)
	return cmd
}

// openLedger 打开数据库并构建流水服务，调用方负责关闭 store
func openLedger(global *globalOptions, opts *ledgerOptions) (*attendance.Service, *store.Store, error) {
	cfg, _, err := global.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}
	if _, err := config.EnsureDataDir(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}
	st, err := store.New(config.GetDataPath(cfg, "attendance.db"))
	if err != nil {
		return nil, nil, err
	}
	svc, err := attendance.NewService(st, cfg.Ledger.Statuses)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return svc, st, nil
}

func newLedgerAddCommand(global *globalOptions, opts *ledgerOptions) *cobra.Command {
	var entry attendance.Entry
	cmd := &cobra.Command{
		Use:   "add",
		Short: "追加一条出勤记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openLedger(global, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			saved, err := svc.Append(cmd.Context(), entry)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已记录 #%d: %s %s %s\n",
				saved.ID, saved.NurseName, saved.Date.Format("2006-01-02"), saved.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&entry.NurseName, "name", "", "护士姓名")
	cmd.Flags().StringVar(&entry.Date, "date", "", "日期 (YYYY-MM-DD)")
	cmd.Flags().StringVar(&entry.Status, "status", "", "出勤状态")
	cmd.Flags().StringVar(&entry.Ward, "ward", "", "病区")
	return cmd
}

func newLedgerListCommand(global *globalOptions, opts *ledgerOptions) *cobra.Command {
	var list attendance.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "查询出勤记录",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openLedger(global, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := svc.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNURSE\tDATE\tSTATUS\tWARD")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.NurseName, e.Date.Format("2006-01-02"), e.Status, e.Ward)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&list.NurseName, "name", "", "按护士姓名过滤 (不区分大小写)")
	cmd.Flags().StringVar(&list.From, "from", "", "起始日期 (YYYY-MM-DD)")
	cmd.Flags().StringVar(&list.To, "to", "", "结束日期 (YYYY-MM-DD)")
	cmd.Flags().IntVar(&list.Limit, "limit", 0, "最多返回条数")
	return cmd
}

func newLedgerExportCommand(global *globalOptions, opts *ledgerOptions) *cobra.Command {
	var (
		outPath string
		list    attendance.ListOptions
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出出勤记录为 xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, st, err := openLedger(global, opts)
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := svc.Export(cmd.Context(), list)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if err := f.SaveAs(outPath); err != nil {
				return fmt.Errorf("failed to save %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已导出: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "导出路径 (.xlsx)")
	cmd.Flags().StringVar(&list.NurseName, "name", "", "按护士姓名过滤")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
