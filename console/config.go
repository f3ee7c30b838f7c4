package console

import (
	"github.com/kelseyhightower/envconfig"
)

// Config tunes the interactive console gateway.
type Config struct {
	// CONSOLE_HOST_NAME is the member the console acts as.
	HostName string `envconfig:"CONSOLE_HOST_NAME" default:"console"`
	// CONSOLE_COLOURS enables colorized output for better readability.
	Colours bool `envconfig:"CONSOLE_COLOURS" default:"true"`
	// CONSOLE_MEMBERS seeds the directory, comma separated.
	Members string `envconfig:"CONSOLE_MEMBERS" default:"alice,bob,carol,dave"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
