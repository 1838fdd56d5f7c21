// internal/stages/score-cards/config.go
package scorecards

import "time"

type Config struct {
	// TopK caps how many candidates a manager reports.
	TopK    int
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		TopK:    3,
		Timeout: 5 * time.Second,
	}
}
