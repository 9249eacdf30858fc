// internal/store/store.go
package store

import (
	"context"
	"encoding/json"
	"errors"

	"prospector/internal/common/logger"
	"prospector/internal/common/metrics"
)

// Well-known keys. Each holds a self-contained JSON document; there is no
// cross-key transaction, which is acceptable because emails and calls embed
// full snapshots of what they reference.
const (
	KeyProfile   = "profile"
	KeyServices  = "services"
	KeyProspects = "prospects"
	KeyEmails    = "emails"
	KeyCalls     = "calls"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("store: key not found")

// Store is the raw key/value persistence backend. Implementations must
// serialize writes per key when used from multiple goroutines so that the
// last full-collection write wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Load reads and decodes the value under key. It never fails the caller: on
// any read or decode error it logs and returns def. A missing key is not an
// error and returns def silently.
func Load[T any](ctx context.Context, s Store, log logger.Logger, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn("store read failed, using default", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
			metrics.StoreReadFailures.WithLabelValues(key).Inc()
		}
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.Warn("store value is not valid JSON, using default", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		metrics.StoreReadFailures.WithLabelValues(key).Inc()
		return def
	}
	return v
}

// Save serializes v and writes it under key synchronously. Failures are
// logged and swallowed: durability is best-effort for this class of data.
func Save(ctx context.Context, s Store, log logger.Logger, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error("store value not serializable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		metrics.StoreWriteFailures.WithLabelValues(key).Inc()
		return
	}

	if err := s.Set(ctx, key, raw); err != nil {
		log.Error("store write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		metrics.StoreWriteFailures.WithLabelValues(key).Inc()
	}
}
