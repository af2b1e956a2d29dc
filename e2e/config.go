package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_CENSORED_WORDS seeds the moderation filter for the scenario
	CensoredWords []string `envconfig:"E2E_CENSORED_WORDS" default:"badword"`
	// E2E_FEED_LIMIT is the page size used when reading feeds back
	FeedLimit int `envconfig:"E2E_FEED_LIMIT" default:"10"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
