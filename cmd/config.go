package main

import (
	"time"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	MaxSessionSize     int    `env:"MAX_SESSION_SIZE,default=50" validate:"gt=0"`
	DefaultSessionSize int    `env:"DEFAULT_SESSION_SIZE,default=4" validate:"gt=0,ltefield=MaxSessionSize"`
	DefaultTitle       string `env:"DEFAULT_TITLE,default=Gaming Sesh" validate:"required"`

	CleanupInterval    time.Duration `env:"CLEANUP_INTERVAL,default=1m" validate:"gt=0"`
	MinSessionLifetime time.Duration `env:"MIN_SESSION_LIFETIME,default=10m" validate:"gt=0"`
	MaxSessionLifetime time.Duration `env:"MAX_SESSION_LIFETIME,default=6h" validate:"gtefield=MinSessionLifetime"`

	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s" validate:"gt=0"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	BufferSize        int           `env:"BUFFER_SIZE,default=64" validate:"gt=0"`

	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*" validate:"len=1"`
	BadgerFilepath  string `env:"BADGER_FILEPATH,default=./data/archive"`
}
