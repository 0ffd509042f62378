package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// Development switches to the console encoder and debug level.
	Development  bool
	Level        string
	File         string
	LogstashAddr string
}

// New builds the process logger. Entries always go to stdout; a rotating file
// and a Logstash TCP input are added when configured. The returned closer
// releases the file and the Logstash connection.
func New(opts Options) (*zap.Logger, io.Closer, error) {
	level, err := parseLevel(opts.Level, opts.Development)
	if err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	if opts.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	console := zapcore.NewJSONEncoder(encCfg)
	if opts.Development {
		console = zapcore.NewConsoleEncoder(encCfg)
	}
	// File and Logstash always receive JSON so they can be indexed.
	structured := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{zapcore.NewCore(console, zapcore.Lock(os.Stdout), level)}
	var closers multiCloser

	if file := strings.TrimSpace(opts.File); file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 7,
			MaxAge:     28,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(structured, zapcore.AddSync(rotator), level))
		closers = append(closers, rotator)
	}

	if addr := strings.TrimSpace(opts.LogstashAddr); addr != "" {
		writer, err := NewLogstashWriter(addr)
		if err != nil {
			return nil, nil, err
		}
		cores = append(cores, zapcore.NewCore(structured, writer, level))
		closers = append(closers, writer)
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, closers, nil
}

func parseLevel(raw string, development bool) (zapcore.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if development {
			return zapcore.DebugLevel, nil
		}
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return level, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
