package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Deeps-444/Attendance-Tracker/internal/config"
	"github.com/Deeps-444/Attendance-Tracker/internal/logger"
	"github.com/Deeps-444/Attendance-Tracker/internal/parser"
)

const banner = `==========================================
  Attendance Tracker - 护士排班偏差分析
==========================================
`

// 退出码
const (
	exitError         = 1
	exitNotRecognized = 2
)

// globalOptions 所有子命令共享的参数
type globalOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand 构建命令树
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "attendance",
		Short: "Planned vs actual roster deviation analysis for nurses.",
		Long: banner + `attendance 读取计划/实际排班表（.xlsx/.xls），按员工与日期关联并分类偏差，
同时维护一份手工出勤流水。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config.toml 路径 (默认位于可执行文件同目录)")
	root.PersistentFlags().StringVarP(&opts.logLevel, "loglevel", "l", "", "日志级别: debug, info, warn, error")

	root.AddCommand(
		newServeCommand(opts),
		newAnalyzeCommand(opts),
		newLedgerCommand(opts),
		newInspectCommand(),
		newFlatCommand(),
	)
	return root
}

// Execute 执行命令并以合适的退出码结束进程
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(printError(root.ErrOrStderr(), err))
	}
}

// printError 输出错误并返回退出码
func printError(w io.Writer, err error) int {
	if errors.Is(err, parser.ErrNotRecognized) {
		fmt.Fprintf(w, "无法识别排班表格式: %v\n", err)
		fmt.Fprintln(w, "请确认表格包含 STAFF NAME 表头、其下一行为日期、再下一行为星期。")
		return exitNotRecognized
	}
	fmt.Fprintf(w, "错误: %v\n", err)
	return exitError
}

// loadConfig 加载配置并初始化日志
func (o *globalOptions) loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if o.configPath != "" {
		cfg, info, err = config.LoadConfigFrom(o.configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return nil, info, err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "attendance",
		Writer:  os.Stderr,
	})

	if problems := cfg.Shifts.Validate(); len(problems) > 0 {
		return nil, info, fmt.Errorf("invalid [shifts] config: %v", problems)
	}
	return cfg, info, nil
}
