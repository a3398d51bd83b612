// Package util serve 命令用到的本机辅助函数
package util

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
)

// portScanRange serve 未显式配置端口时向后探测的端口数
const portScanRange = 20

// fallbackBrowsers Linux 下 xdg-open 不可用时依次尝试
var fallbackBrowsers = []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"}

// OpenBrowser 用系统默认方式打开状态页 URL
func OpenBrowser(url string) error {
	return browserCommand(url).Start()
}

func browserCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		return exec.Command("open", url)
	default:
		return exec.Command("xdg-open", url)
	}
}

// OpenBrowserWithFallback 默认方式失败时换用 explorer 或常见浏览器；全部失败返回最初的错误
func OpenBrowserWithFallback(url string) error {
	err := OpenBrowser(url)
	if err == nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		if exec.Command("explorer", url).Start() == nil {
			return nil
		}
	case "linux":
		for _, name := range fallbackBrowsers {
			if exec.Command(name, url).Start() == nil {
				return nil
			}
		}
	}
	return err
}

// FindAvailablePort 返回 [start, start+20) 内第一个可监听的端口，都被占用时返回 start
func FindAvailablePort(start int) int {
	for port := start; port < start+portScanRange; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port
	}
	return start
}

// FormatPercent 遵守率 / 偏差率输出，value 已是百分数
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}
