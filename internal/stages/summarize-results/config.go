// internal/stages/summarize-results/config.go
package summarizeresults

type Config struct {
	// SummaryTopN is how many leading recommendations feed the summary
	// line and the confidence mean.
	SummaryTopN int
}

func DefaultConfig() *Config {
	return &Config{
		SummaryTopN: 3,
	}
}
