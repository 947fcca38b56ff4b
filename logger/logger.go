package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// Logger 全局日志实例
	Logger = newLogger(os.Stdout, logrus.InfoLevel)
	// ErrorLogger 错误日志实例
	ErrorLogger = newLogger(os.Stderr, logrus.InfoLevel)
)

// LogConfig 日志配置
type LogConfig struct {
	ErrorLogPath string
	InfoLogPath  string
	LogLevel     string
}

// CustomFormatter renders "[time] [LEVL] (caller) message k=v ...".
type CustomFormatter struct {
	TimestampFormat string
}

// Format 实现 logrus.Formatter 接口
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] (%s) %s", timestamp, level, getCaller(), entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
		}
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// getCaller 跳过日志框架自身的栈帧，找到实际的调用者
func getCaller() string {
	for i := 2; i < 20; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(file, "sirupsen") ||
			strings.Contains(file, "/logger/logger.go") {
			continue
		}
		return fmt.Sprintf("%s:%s:%d", filepath.Base(file), runtime.FuncForPC(pc).Name(), line)
	}
	return "unknown:unknown:0"
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&CustomFormatter{TimestampFormat: "15:04:05 MST 2006/01/02"})
	l.SetLevel(level)
	l.SetOutput(out)
	return l
}

// ParseLogLevel 解析日志级别字符串，无法识别时返回 info
func ParseLogLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// InitLogger 初始化日志
func InitLogger(config LogConfig) error {
	level := ParseLogLevel(config.LogLevel)

	Logger = newLogger(os.Stdout, level)
	ErrorLogger = newLogger(os.Stderr, level)

	if config.InfoLogPath != "" {
		f, err := openLogFile(config.InfoLogPath)
		if err != nil {
			Logger.Warnf("failed to open info log file %s, fallback to stdout: %v", config.InfoLogPath, err)
		} else {
			Logger.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	if config.ErrorLogPath != "" {
		f, err := openLogFile(config.ErrorLogPath)
		if err != nil {
			ErrorLogger.Warnf("failed to open error log file %s, fallback to stderr: %v", config.ErrorLogPath, err)
		} else {
			ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	}
	return nil
}

// openLogFile 打开日志文件，目录不存在时创建
func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
}

// WithFields returns an entry on the error logger carrying fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return ErrorLogger.WithFields(fields)
}

// Debugf 记录格式化调试日志
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Infof 记录格式化信息日志
func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

// Warnf 记录格式化警告日志
func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

// Errorf 记录格式化错误日志
func Errorf(format string, args ...interface{}) {
	ErrorLogger.Errorf(format, args...)
}

// Fatalf 记录格式化致命错误日志并退出
func Fatalf(format string, args ...interface{}) {
	ErrorLogger.Fatalf(format, args...)
}
