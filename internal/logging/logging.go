// Package logging provides structured logging configuration.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration options.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// New creates a new configured zap logger.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			return nil, err
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
	}

	var zcfg zap.Config
	if format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.LevelKey = "level"
	zcfg.EncoderConfig.MessageKey = "msg"
	zcfg.EncoderConfig.CallerKey = "caller"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", "clicktrace")), nil
}

// Sync flushes any buffered log entries.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}

// ValidLevel reports whether level is accepted by New.
func ValidLevel(level string) bool {
	var l zapcore.Level
	return l.Set(strings.ToLower(level)) == nil
}

// ValidFormat reports whether format is accepted by New.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", "json", "console":
		return true
	}
	return false
}

// EventType returns a zap field for a DOM event type.
func EventType(kind string) zap.Field { return zap.String("event_type", kind) }

// Tag returns a zap field for an element tag name.
func Tag(tag string) zap.Field { return zap.String("tag", tag) }

// HolderTag returns a zap field for the resolved holder's tag name.
func HolderTag(tag string) zap.Field { return zap.String("holder_tag", tag) }

// Iterations returns a zap field for the number of walk iterations.
func Iterations(n int) zap.Field { return zap.Int("iterations", n) }

// DeliveryID returns a zap field for a delivery identifier.
func DeliveryID(id string) zap.Field { return zap.String("delivery_id", id) }

// Status returns a zap field for an HTTP status code.
func Status(code int) zap.Field { return zap.Int("status", code) }

// URL returns a zap field for a request URL.
func URL(url string) zap.Field { return zap.String("url", url) }

// Port returns a zap field for the port number.
func Port(port int) zap.Field { return zap.Int("port", port) }

// Host returns a zap field for a host name.
func Host(host string) zap.Field { return zap.String("host", host) }
