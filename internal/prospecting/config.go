// internal/prospecting/config.go
package prospecting

import "time"

// Config holds the prospect-search tunables. ResultTarget and MinProbability
// are deliberately configuration, not contract: observed prompt revisions of
// the product varied between 15/20/50 results and filtered/unfiltered scores.
type Config struct {
	ResultTarget   int
	MinProbability int
	Timeout        time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		ResultTarget:   20,
		MinProbability: 0,
		Timeout:        120 * time.Second,
	}
}
