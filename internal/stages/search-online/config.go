// internal/stages/search-online/config.go
package searchonline

import "time"

type Config struct {
	// BaseScore is the relevance assigned to the first hit; later hits
	// decay by Decay each.
	BaseScore float64
	Decay     float64
	TopK      int
	Timeout   time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		BaseScore: 0.6,
		Decay:     0.05,
		TopK:      3,
		Timeout:   5 * time.Second,
	}
}
