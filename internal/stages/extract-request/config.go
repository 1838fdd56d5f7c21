// internal/stages/extract-request/config.go
package extractrequest

import "time"

type Config struct {
	Timeout time.Duration

	// DefaultJurisdiction is used when neither the locale nor the
	// extraction carry a usable market code.
	DefaultJurisdiction string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:             10 * time.Second,
		DefaultJurisdiction: "SG",
	}
}
