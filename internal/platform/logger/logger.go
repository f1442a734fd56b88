// Package logger は slog のデフォルトロガーを設定します。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options はロガーの出力設定です。
type Options struct {
	Level      string // debug, info, warn, error
	File       string // 空の場合は標準出力のみ
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// OptionsFromEnv は LOG_LEVEL と LOG_FILE から Options を組み立てます。
func OptionsFromEnv() Options {
	return Options{
		Level:      os.Getenv("LOG_LEVEL"),
		File:       os.Getenv("LOG_FILE"),
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 28,
	}
}

// New は JSON 形式の slog.Logger を生成します。File が指定されている場合は
// 標準出力に加えてローテーションされるファイルにも書き込みます。
// 戻り値の io.Closer はファイル出力を閉じます。
func New(service string, opts Options) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stdout, lj)
		closer = lj
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(h).With("service", service), closer
}

// Init は New で生成したロガーをデフォルトとして設定します。
func Init(service string, opts Options) io.Closer {
	l, closer := New(service, opts)
	slog.SetDefault(l)
	return closer
}

// ParseLevel はログレベル文字列を変換します。不明な値は Info になります。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
