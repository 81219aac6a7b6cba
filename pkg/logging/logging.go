// Package logging sends airbutler's slog output to a size-rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"airbutler/pkg/config"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace sits below debug and is used for full request/response dumps.
const LevelTrace = slog.Level(-8)

const (
	logDirName  = ".airbutler"
	logFileName = "airbutler.log"

	rotateSizeMB  = 5
	rotateBackups = 5
	rotateAgeDays = 14

	redacted = "[redacted]"
)

var levelNames = map[string]slog.Level{
	"trace":   LevelTrace,
	"debug":   slog.LevelDebug,
	"":        slog.LevelInfo,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Values under these keys never reach the file.
var secretKeys = map[string]bool{
	"api_key":       true,
	"authorization": true,
	"token":         true,
}

// Session is the process-wide logger and the rotated file behind it.
type Session struct {
	Logger *slog.Logger
	ID     string

	file io.Closer
}

// Close flushes and closes the log file.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// Init installs the default slog logger. Every record carries a session_id so
// one run can be picked out of a shared file. If the log directory cannot be
// created the logger discards output and the error is returned.
func Init(cfg config.Config) (*Session, error) {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(cfg.LogLevel),
		ReplaceAttr: replaceAttr,
	}
	s := &Session{ID: uuid.NewString()}

	var out io.Writer = io.Discard
	path := LogPath(cfg)
	err := os.MkdirAll(filepath.Dir(path), 0700)
	if err == nil {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    rotateSizeMB,
			MaxBackups: rotateBackups,
			MaxAge:     rotateAgeDays,
			Compress:   true,
		}
		out, s.file = rotated, rotated
	}

	s.Logger = slog.New(newHandler(cfg.LogFormat, out, opts)).With("session_id", s.ID)
	slog.SetDefault(s.Logger)
	return s, err
}

// LogPath is the configured log file, or ~/.airbutler/logs/airbutler.log.
func LogPath(cfg config.Config) string {
	if p := strings.TrimSpace(cfg.LogFile); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return filepath.Join(logDirName, "logs", logFileName)
	}
	return filepath.Join(home, logDirName, "logs", logFileName)
}

// ParseLevel maps a config level name onto a slog level. Unknown names log at
// info.
func ParseLevel(name string) slog.Level {
	if level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return level
	}
	return slog.LevelInfo
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.LevelKey:
		if level, ok := a.Value.Any().(slog.Level); ok && level == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	case secretKeys[strings.ToLower(a.Key)]:
		if a.Value.Kind() == slog.KindString && a.Value.String() != "" {
			a.Value = slog.StringValue(redacted)
		}
	}
	return a
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
