// internal/outreach/config.go
package outreach

import "time"

// Config holds the drafting tunables. Concurrency 1 is the default and the
// recommended mode: the sequential loop keeps progress reporting
// deterministic and respects the collaborator's rate limits. Values above 1
// are an opt-in enhancement with bounded parallelism.
type Config struct {
	Timeout     time.Duration
	Concurrency int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     60 * time.Second,
		Concurrency: 1,
	}
}
