// Package logging builds the zap loggers used by sqlshim and its CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes a logger.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json or console
	Development bool
	// File, when set, tees output into a rotating file.
	File string
}

var (
	// logger is the process-wide logger used by the CLI
	logger = zap.NewNop()
	mu     sync.RWMutex
)

// New creates a zap logger writing to stderr and, optionally, a rotating file.
func New(cfg Config) *zap.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, out io.Writer) *zap.Logger {
	level := ParseLevel(cfg.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(cfg.Format), zapcore.AddSync(out), level),
	}
	if cfg.File != "" {
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(RotatingFile(cfg.File)), level))
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

func encoder(format string) zapcore.Encoder {
	switch format {
	case "console":
		config := zap.NewDevelopmentEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(config)
	default:
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
}

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(name string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// RotatingFile returns a size-rotated log file writer.
func RotatingFile(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}

// Init replaces the process-wide logger.
func Init(cfg Config) {
	l := New(cfg)
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the process-wide logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes the process-wide logger.
func Sync() {
	_ = L().Sync()
}
