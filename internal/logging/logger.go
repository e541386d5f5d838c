// Package logging 根据配置构造 zap 日志。
package logging

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/habittracker/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 创建 zap.Logger，返回的 cleanup 负责刷新缓冲并关闭日志文件。
// 未配置 log.file 时输出到 stderr，避免与交互界面的 stdout 混在一起。
func New(cfg config.LogConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	sink := zapcore.Lock(os.Stderr)
	closeSink := func() {}
	if cfg.File != "" {
		ws, closeFn, err := zap.Open(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		sink, closeSink = ws, closeFn
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), sink, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	cleanup := func() {
		if err := logger.Sync(); err != nil && !isStdoutSyncError(err) {
			fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
		}
		closeSink()
	}
	return logger, cleanup, nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "json" {
		return zapcore.NewJSONEncoder(encoderCfg)
	}
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderCfg)
}

// isStdoutSyncError 在 Linux 上同步 stderr 会返回 EINVAL/ENOTTY，可忽略
func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
