package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

type ColoredLogger struct {
	mu      sync.RWMutex
	level   zap.AtomicLevel
	writers []zapcore.WriteSyncer
	sugar   *zap.SugaredLogger
}

var globalLogger *ColoredLogger

func init() {
	globalLogger = &ColoredLogger{
		level:   zap.NewAtomicLevelAt(zapcore.InfoLevel),
		writers: []zapcore.WriteSyncer{zapcore.Lock(os.Stdout)},
	}
	globalLogger.rebuild()
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("06-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.CallerKey = ""
	cfg.StacktraceKey = ""
	return cfg
}

// rebuild must be called with mu held for writing, or during init.
func (cl *ColoredLogger) rebuild() {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.NewMultiWriteSyncer(cl.writers...),
		cl.level,
	)
	cl.sugar = zap.New(core).Sugar()
}

func SetVerbose(verbose bool) {
	if verbose {
		globalLogger.level.SetLevel(zapcore.DebugLevel)
	} else {
		globalLogger.level.SetLevel(zapcore.InfoLevel)
	}
}

func IsVerbose() bool {
	return globalLogger.level.Enabled(zapcore.DebugLevel)
}

// SetWriterForAll replaces every output with writer.
func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writers = []zapcore.WriteSyncer{zapcore.AddSync(writer)}
	globalLogger.rebuild()
}

// AddWriterForAll tees output to writer, e.g. a --logfile.
func AddWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.writers = append(globalLogger.writers, zapcore.AddSync(writer))
	globalLogger.rebuild()
}

func SetErrorWriter() {
	SetWriterForAll(os.Stderr)
}

func Sync() error {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.sugar.Sync()
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	sugar := cl.sugar
	cl.mu.RUnlock()

	switch level {
	case DEBUG:
		sugar.Debugf(format, args...)
	case INFO:
		sugar.Infof(format, args...)
	case WARN:
		sugar.Warnf(format, args...)
	case ERROR:
		sugar.Errorf(format, args...)
	default:
		sugar.Fatalf(format, args...)
	}
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
