package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Deeps-444/Attendance-Tracker/internal/logger"
	"github.com/Deeps-444/Attendance-Tracker/internal/server"
	"github.com/Deeps-444/Attendance-Tracker/internal/util"
)

type serveOptions struct {
	port    int
	devMode bool
	dataDir string
	open    bool
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP API 服务",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, global, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&opts.devMode, "dev", false, "开发模式")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "数据目录 (覆盖配置文件)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "启动后在浏览器中打开状态页")
	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, banner)

	cfg, info, err := global.loadConfig()
	if err != nil {
		return err
	}
	log := logger.Named("serve")
	if !info.FileFound {
		log.Info().Str("path", info.Path).Msg("config.toml not found, using defaults")
	}

	// 命令行参数覆盖配置
	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if !info.PortSpecified && opts.port == 0 {
		cfg.Server.Port = util.FindAvailablePort(cfg.Server.Port)
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d/api/status", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(out, "服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		errCh <- srv.Run(addr)
	}()

	if opts.open && !cfg.Server.DevMode {
		fmt.Fprintf(out, "正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Fprintf(out, "无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Fprintf(out, "请访问 %s\n", url)
	}

	fmt.Fprintln(out, "\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		fmt.Fprintln(out, "\n正在关闭服务...")
		return nil
	case err := <-errCh:
		return fmt.Errorf("服务启动失败: %w", err)
	}
}
