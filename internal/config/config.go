package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"

	"github.com/habittracker/internal/locale"
)

// EnvPrefix 环境变量前缀，例如 HABITS_DATABASE_PATH -> database.path
const EnvPrefix = "HABITS_"

const maxConfigFileSize = 1024 * 1024

// AppConfig 汇总运行所需的基础配置。
type AppConfig struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Shell    ShellConfig    `koanf:"shell"`
}

// DatabaseConfig 指定 SQLite 文件位置
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// ServerConfig 控制 HTTP 服务
type ServerConfig struct {
	Addr    string `koanf:"addr"`
	GinMode string `koanf:"gin_mode"`
}

// LogConfig 控制 zap 日志输出
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// ShellConfig 控制交互界面
type ShellConfig struct {
	Language string `koanf:"language"`
}

// Default 返回全部默认值
func Default() AppConfig {
	return AppConfig{
		Database: DatabaseConfig{Path: "habits.db"},
		Server:   ServerConfig{Addr: ":8082", GinMode: "release"},
		Log:      LogConfig{Level: "warn", Format: "console"},
		Shell:    ShellConfig{Language: locale.LanguageEnglish},
	}
}

// Load 依次读取 YAML 配置文件（可选）与 HABITS_* 环境变量，缺失项使用默认值。
// path 为空时只读取环境变量。
func Load(path string) (AppConfig, error) {
	k := koanf.New(".")

	if path = strings.TrimSpace(path); path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return AppConfig{}, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return AppConfig{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return AppConfig{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate 校验运行模式、日志级别、格式与语言
func (c AppConfig) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if locale.NormalizeLanguage(c.Shell.Language) == "" {
		return fmt.Errorf("shell.language must be en or zh, got %q", c.Shell.Language)
	}
	return nil
}

// envKey 将 HABITS_SERVER_GIN_MODE 映射为 server.gin_mode，只按第一个下划线分段
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *AppConfig) {
	defaults := Default()

	cfg.Database.Path = fallback(cfg.Database.Path, defaults.Database.Path)
	cfg.Server.Addr = fallback(cfg.Server.Addr, defaults.Server.Addr)
	cfg.Server.GinMode = fallback(cfg.Server.GinMode, defaults.Server.GinMode)
	cfg.Log.Level = strings.ToLower(fallback(cfg.Log.Level, defaults.Log.Level))
	cfg.Log.Format = strings.ToLower(fallback(cfg.Log.Format, defaults.Log.Format))
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	cfg.Shell.Language = fallback(locale.NormalizeLanguage(cfg.Shell.Language), cfg.Shell.Language)
	cfg.Shell.Language = fallback(cfg.Shell.Language, defaults.Shell.Language)
}

func fallback(value, def string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return def
}
