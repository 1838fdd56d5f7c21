// internal/stages/plan-fanout/config.go
package planfanout

type Config struct {
	// AlwaysIncludeGeneral appends the general manager to every plan so a
	// baseline result exists even when specialists find nothing.
	AlwaysIncludeGeneral bool
}

func DefaultConfig() *Config {
	return &Config{
		AlwaysIncludeGeneral: true,
	}
}
