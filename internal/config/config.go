package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/Deeps-444/Attendance-Tracker/internal/service/deviation"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig         `toml:"server"`
	Data   DataConfig           `toml:"data"`
	Log    LogConfig            `toml:"log"`
	Shifts deviation.Vocabulary `toml:"shifts"`
	Ledger LedgerConfig         `toml:"ledger"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// LedgerConfig 出勤流水配置
type LedgerConfig struct {
	Statuses []string `toml:"statuses"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultStatuses 出勤状态
var DefaultStatuses = []string{"Present", "Absent", "Leave", "Off", "Half Day"}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Shifts: deviation.DefaultVocabulary(),
		Ledger: LedgerConfig{
			Statuses: append([]string(nil), DefaultStatuses...),
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(DefaultConfigPath())
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时使用默认配置
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)

		// 配置文件中出现 [[shifts.rules]] 时整体替换默认词表
		config.Shifts.Rules = nil
		config.Ledger.Statuses = nil
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
		if len(config.Shifts.Rules) == 0 {
			config.Shifts = deviation.DefaultVocabulary()
		}
		if len(config.Ledger.Statuses) == 0 {
			config.Ledger.Statuses = append([]string(nil), DefaultStatuses...)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config, &info)
	return config, info, nil
}

// applyEnv 环境变量覆盖
func applyEnv(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("ATTENDANCE_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("ATTENDANCE_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("ATTENDANCE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
}

// ResolveDataDir 数据目录绝对路径；相对路径以可执行文件目录为基准
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 数据目录下的路径，如 GetDataPath(cfg, "exports")
func GetDataPath(config *AppConfig, elem ...string) string {
	return filepath.Join(append([]string{ResolveDataDir(config)}, elem...)...)
}
