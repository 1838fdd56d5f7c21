// internal/stages/handle-error/config.go
package handleerror

type Config struct {
	// FallbackScore is the flat score given to generic fallback cards.
	FallbackScore float64
	FallbackTopK  int
}

func DefaultConfig() *Config {
	return &Config{
		FallbackScore: 0.5,
		FallbackTopK:  3,
	}
}
