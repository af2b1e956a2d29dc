package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	MediaDir       string `env:"MEDIA_DIR,required=true"`

	PushEndpoint string `env:"PUSH_ENDPOINT,default=https://fcm.googleapis.com/fcm/send"`
	PushAPIKey   string `env:"PUSH_API_KEY"`

	SessionSecret       string        `env:"SESSION_SECRET,required=true"`
	SessionTTL          time.Duration `env:"SESSION_TTL,default=24h"`
	AllowedEmailDomains string        `env:"ALLOWED_EMAIL_DOMAINS"`

	CensoredWords string `env:"CENSORED_WORDS"`
	CensorMask    string `env:"CENSOR_MASK,default=*"`

	FeedLimit *int   `env:"FEED_LIMIT"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
}

// MaskRune validates that CENSOR_MASK is a single character.
func MaskRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSOR_MASK must be a single character, got %q", str)
	}
	return r[0], nil
}

// SplitList parses a comma-separated env value, dropping blanks.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
