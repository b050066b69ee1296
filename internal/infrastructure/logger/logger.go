package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置
type Options struct {
	Level string // debug, info, warn, error
	Dir   string // 为空时只输出到控制台
}

// Setup 初始化日志: 控制台输出, 并按日期写入 <Dir>/<YYYY-MM-DD>.log
func Setup(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", opts.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleConfig := encoderConfig
	consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stdout), level),
	}

	if opts.Dir != "" {
		// 创建日志目录
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		logFileName := filepath.Join(opts.Dir, time.Now().Format("2006-01-02")+".log")
		logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(logFile), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(log)
	return log, nil
}

// Info 记录信息级别的日志
func Info(format string, v ...interface{}) {
	zap.S().Infof(format, v...)
}

// Warning 记录警告级别的日志
func Warning(format string, v ...interface{}) {
	zap.S().Warnf(format, v...)
}

// Error 记录错误级别的日志
func Error(format string, v ...interface{}) {
	zap.S().Errorf(format, v...)
}
