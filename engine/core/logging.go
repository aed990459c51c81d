package core

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel = log.Level

const (
	DebugLevel = log.DebugLevel
	InfoLevel  = log.InfoLevel
	WarnLevel  = log.WarnLevel
	ErrorLevel = log.ErrorLevel
	FatalLevel = log.FatalLevel
)

var once sync.Once

type logger struct {
	*log.Logger

	mu       sync.Mutex
	children []*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "Anima 🌳 ",
			})
			l.SetLevel(log.InfoLevel)
			singleton = &logger{Logger: l}
		})
	return singleton
}

// ParseLogLevel maps "debug", "info", "warn", "error" and "fatal" to a level.
func ParseLogLevel(level string) (LogLevel, error) {
	return log.ParseLevel(level)
}

// SetLogLevel changes the level of the engine logger and of every logger
// handed out by Logger.
func SetLogLevel(level LogLevel) {
	l := getLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.SetLevel(level)
	for _, c := range l.children {
		c.SetLevel(level)
	}
}

func GetLogLevel() LogLevel {
	return getLogger().GetLevel()
}

// SetLogOutput redirects the engine logger and its children to w.
func SetLogOutput(w io.Writer) {
	l := getLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.SetOutput(w)
	for _, c := range l.children {
		c.SetOutput(w)
	}
}

// Logger returns a child of the engine logger that prints prefix and the
// given key/value pairs on every line.
func Logger(prefix string, keyvals ...interface{}) *log.Logger {
	l := getLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.WithPrefix(prefix).With(keyvals...)
	l.children = append(l.children, c)
	return c
}

// ForgetLogger stops propagating level and output changes to c.
func ForgetLogger(c *log.Logger) {
	l := getLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, child := range l.children {
		if child == c {
			l.children = append(l.children[:i], l.children[i+1:]...)
			return
		}
	}
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
