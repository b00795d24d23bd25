package cache

import (
	"encoding/hex"
	"fmt"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/blake2b"
)

// Memoizer stores derived view results keyed by (operation, dataset version,
// argument fingerprint). Entries never expire by time; the whole store is
// flushed when the dataset version changes. Stored results are immutable by
// convention and callers must not mutate them.
type Memoizer struct {
	mu      sync.Mutex
	version string
	store   *gocache.Cache
}

// NewMemoizer creates an empty memoizer
func NewMemoizer() *Memoizer {
	return &Memoizer{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// SetVersion records the current dataset version and flushes all memoized
// results when it changes. Calls with the current version are no-ops.
func (m *Memoizer) SetVersion(version string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if version == m.version {
		return
	}
	m.version = version
	m.store.Flush()
}

// Len returns the number of memoized results
func (m *Memoizer) Len() int {
	return m.store.ItemCount()
}

// cacheKey fingerprints the argument list so arbitrary argument shapes
// produce a fixed-size cache key. The version must be the one of the
// snapshot the caller computes from, not the memoizer's current version:
// a reload that lands mid-computation then leaves the result keyed under
// the old version, where no later caller can reach it.
func cacheKey(op, version string, args ...any) string {
	h, _ := blake2b.New256(nil)
	for _, a := range args {
		// String slices are written element-wise: "%v" would render
		// []string{"Tamil Nadu"} and []string{"Tamil", "Nadu"} identically.
		if ss, ok := a.([]string); ok {
			for _, s := range ss {
				fmt.Fprintf(h, "%s\x1f", s)
			}
			fmt.Fprint(h, "\x00")
			continue
		}
		fmt.Fprintf(h, "%v\x00", a)
	}
	return op + ":" + version + ":" + hex.EncodeToString(h.Sum(nil))
}

// Memoized returns the stored result for op(args) over the given dataset
// version, or computes and stores it. The caller passes the version of the
// snapshot its compute closure reads. Errors are returned to the caller and
// never cached, so a failed computation is retried on the next call.
func Memoized[T any](m *Memoizer, op, version string, compute func() (T, error), args ...any) (T, error) {
	key := cacheKey(op, version, args...)
	if v, ok := m.store.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	result, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	m.store.Set(key, result, gocache.NoExpiration)
	return result, nil
}
