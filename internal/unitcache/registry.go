// Package unitcache memoizes subunit lookups of compound calendar units.
//
// A Registry holds one Store per Tag. Each Store maps (owner, position) to an
// element and (owner, element) back to its position. Entries count their
// hits; once the total number of entries across all stores exceeds the
// configured threshold, every store drops the entries whose usage is below
// floor(maxUsage * RetentionFactor). Stores with no reused entry are cleared
// if that is not enough to get back under the threshold.
//
// The cache is a pure accelerator: any entry may vanish at any time, and
// callers always recompute on a miss. Locks are held only around map access.
package unitcache

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	appLog "calunit/internal/log"
)

const (
	DefaultThreshold       = 20480
	DefaultRetentionFactor = 0.5
)

var (
	ErrInvalidThreshold = errors.New("unitcache: threshold must be positive")
	ErrInvalidRetention = errors.New("unitcache: retention factor must be in (0, 1]")
)

// Tag identifies the kind of compound unit a Store serves.
type Tag int

const (
	TagYearMonths Tag = iota + 1
	TagMonthWeeks
	TagWeekDays
)

func (t Tag) String() string {
	switch t {
	case TagYearMonths:
		return "year-months"
	case TagMonthWeeks:
		return "month-weeks"
	case TagWeekDays:
		return "week-days"
	default:
		return fmt.Sprintf("tag(%d)", int(t))
	}
}

// Config holds the purge tunables.
type Config struct {
	// Threshold is the total entry count above which a purge runs.
	Threshold int
	// RetentionFactor scales the per-store maximum usage into the minimum
	// usage an entry needs to survive a purge.
	RetentionFactor float64
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold, RetentionFactor: DefaultRetentionFactor}
}

// Validate reports whether c is usable.
func (c Config) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidThreshold, c.Threshold)
	}
	if !(c.RetentionFactor > 0 && c.RetentionFactor <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidRetention, c.RetentionFactor)
	}
	return nil
}

// Stats is a snapshot of registry counters.
type Stats struct {
	Entries   int            `json:"entries"`
	ByTag     map[string]int `json:"by_tag"`
	Hits      uint64         `json:"hits"`
	Misses    uint64         `json:"misses"`
	Purges    uint64         `json:"purges"`
	Evictions uint64         `json:"evictions"`
}

// store is the type-erased view of a Store used by the registry.
type store interface {
	tag() Tag
	size() int
	purge(factor float64) (int, uint32)
	clear() int
}

// Registry owns the per-tag stores and the shared purge policy.
type Registry struct {
	mu     sync.RWMutex
	stores map[Tag]store

	cfg     atomic.Pointer[Config]
	entries atomic.Int64
	purging atomic.Bool

	hits      atomic.Uint64
	misses    atomic.Uint64
	purges    atomic.Uint64
	evictions atomic.Uint64
}

// NewRegistry returns an empty registry. Invalid tunables in cfg are
// replaced by their defaults.
func NewRegistry(cfg Config) *Registry {
	r := &Registry{stores: make(map[Tag]store)}
	r.cfg.Store(normalize(cfg))
	return r
}

func normalize(cfg Config) *Config {
	def := DefaultConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if !(cfg.RetentionFactor > 0 && cfg.RetentionFactor <= 1) {
		cfg.RetentionFactor = def.RetentionFactor
	}
	return &cfg
}

var defaultRegistry = NewRegistry(DefaultConfig())

// Default returns the process-wide registry used by the unit package.
func Default() *Registry { return defaultRegistry }

// Config returns the current tunables.
func (r *Registry) Config() Config { return *r.cfg.Load() }

// Configure replaces the tunables. A lower threshold takes effect on the
// next insertion.
func (r *Registry) Configure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg.Store(&cfg)
	appLog.Debug("unit cache configured", "threshold", cfg.Threshold, "retention_factor", cfg.RetentionFactor)
	return nil
}

// Lookup returns the store registered for tag, creating it on first use.
// Every caller of a given tag must use the same type arguments.
func Lookup[O, E comparable](r *Registry, tag Tag) *Store[O, E] {
	r.mu.RLock()
	s, ok := r.stores[tag]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		if s, ok = r.stores[tag]; !ok {
			s = newStore[O, E](r, tag)
			r.stores[tag] = s
			appLog.Debug("unit cache store created", "tag", tag.String())
		}
		r.mu.Unlock()
	}
	typed, ok := s.(*Store[O, E])
	if !ok {
		panic(fmt.Sprintf("unitcache: store %s registered with different key types", tag))
	}
	return typed
}

func (r *Registry) snapshot() []store {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out
}

// added records n new entries and purges when the threshold is exceeded.
// Only one purge runs at a time; concurrent inserters skip it.
func (r *Registry) added(n int) {
	total := r.entries.Add(int64(n))
	if total <= int64(r.Config().Threshold) {
		return
	}
	if !r.purging.CompareAndSwap(false, true) {
		return
	}
	defer r.purging.Store(false)
	r.Purge()
}

// Purge evicts low-usage entries from every store. If the registry is still
// above the threshold afterwards, the stores in which no entry was ever
// reused are cleared as well. Stores holding reused entries keep them.
func (r *Registry) Purge() {
	cfg := r.Config()
	evicted := 0
	var cold []store
	for _, s := range r.snapshot() {
		n, floor := s.purge(cfg.RetentionFactor)
		r.entries.Add(-int64(n))
		evicted += n
		if floor == 0 {
			cold = append(cold, s)
		}
	}
	if r.entries.Load() > int64(cfg.Threshold) {
		for _, s := range cold {
			n := s.clear()
			r.entries.Add(-int64(n))
			evicted += n
		}
	}
	r.purges.Add(1)
	r.evictions.Add(uint64(evicted))
	appLog.Debug("unit cache purged", "evicted", evicted, "entries", r.entries.Load())
}

// Clear drops every entry of every store.
func (r *Registry) Clear() {
	r.clearAll()
}

func (r *Registry) clearAll() int {
	removed := 0
	for _, s := range r.snapshot() {
		n := s.clear()
		r.entries.Add(-int64(n))
		removed += n
	}
	return removed
}

// Len returns the number of entries across all stores.
func (r *Registry) Len() int {
	total := 0
	for _, s := range r.snapshot() {
		total += s.size()
	}
	return total
}

// Stats returns a snapshot of the registry counters.
func (r *Registry) Stats() Stats {
	stores := r.snapshot()
	st := Stats{
		ByTag:     make(map[string]int, len(stores)),
		Hits:      r.hits.Load(),
		Misses:    r.misses.Load(),
		Purges:    r.purges.Load(),
		Evictions: r.evictions.Load(),
	}
	for _, s := range stores {
		n := s.size()
		st.Entries += n
		st.ByTag[s.tag().String()] = n
	}
	return st
}

// retention returns the minimum usage an entry needs to survive a purge.
func retention(maxUses uint32, factor float64) uint32 {
	return uint32(math.Floor(float64(maxUses) * factor))
}
