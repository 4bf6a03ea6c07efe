package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Logger  = zap.NewNop().Sugar()
	logFile *os.File
	mu      sync.Mutex
)

// Initialize points the logger at <logDir>/debug.log. Until it is called the
// logger discards everything, so library code and tests stay quiet.
func Initialize(logDir, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		return nil
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(logDir, "debug.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		Logger.Warnw("failed to open log file", "path", logPath, "error", err)
		return err
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(f), lvl)

	Logger = zap.New(core, zap.AddCaller()).Named("showcase").Sugar()
	Logger.Debugw("logger initialized", "path", logPath, "level", lvl.String())

	return nil
}

// Named returns a structured child logger for a component.
func Named(name string) *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return Logger.Desugar().Named(name)
}

// Close flushes and closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	_ = Logger.Sync()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		Logger = zap.NewNop().Sugar()
		return err
	}
	return nil
}
