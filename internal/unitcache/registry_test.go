package unitcache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calunit/internal/unitcache"
)

type owner struct {
	cal  string
	year int
}

func TestLookup_ReturnsSameStore(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.DefaultConfig())
	a := unitcache.Lookup[owner, int](r, unitcache.TagYearMonths)
	b := unitcache.Lookup[owner, int](r, unitcache.TagYearMonths)
	assert.Same(t, a, b)

	c := unitcache.Lookup[owner, int](r, unitcache.TagMonthWeeks)
	assert.NotSame(t, a, c)

	assert.Panics(t, func() {
		unitcache.Lookup[owner, string](r, unitcache.TagYearMonths)
	}, "tag reused with different key types")
}

func TestStore_ElementAndIndex(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.DefaultConfig())
	s := unitcache.Lookup[owner, int](r, unitcache.TagYearMonths)
	o := owner{"gregorian", 2021}

	_, ok := s.Element(o, 1)
	assert.False(t, ok)

	s.PutElement(o, 1, 100)
	s.PutIndex(o, 100, 1)

	got, ok := s.Element(o, 1)
	require.True(t, ok)
	assert.Equal(t, 100, got)

	idx, ok := s.Index(o, 100)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = s.Index(owner{"uniform", 2021}, 100)
	assert.False(t, ok, "owners from other calendars never collide")

	st := r.Stats()
	assert.Equal(t, 2, st.Entries)
	assert.Equal(t, 2, st.ByTag["year-months"])
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(2), st.Misses)
}

func TestPurge_KeepsFrequentlyUsedEntries(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.Config{Threshold: 4, RetentionFactor: 0.5})
	s := unitcache.Lookup[owner, int](r, unitcache.TagMonthWeeks)
	o := owner{"gregorian", 2021}

	for i := range 4 {
		s.PutElement(o, i, i*10)
	}
	for range 4 {
		_, _ = s.Element(o, 0)
	}
	_, _ = s.Element(o, 1)

	// The fifth entry crosses the threshold: max usage 4, retention 2.
	s.PutElement(o, 4, 40)

	assert.Equal(t, 1, r.Len())
	_, ok := s.Element(o, 0)
	assert.True(t, ok)
	_, ok = s.Element(o, 1)
	assert.False(t, ok)

	st := r.Stats()
	assert.Equal(t, uint64(1), st.Purges)
	assert.Equal(t, uint64(4), st.Evictions)
}

func TestPurge_ClearsWhenNothingWasReused(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.Config{Threshold: 2, RetentionFactor: 0.5})
	s := unitcache.Lookup[owner, int](r, unitcache.TagWeekDays)
	o := owner{"gregorian", 2021}

	s.PutElement(o, 1, 1)
	s.PutElement(o, 2, 2)
	assert.Equal(t, 2, r.Len())
	s.PutElement(o, 3, 3)
	assert.Equal(t, 0, r.Len())
}

func TestPurge_KeepsHotStoreWhenClearingColdOnes(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.Config{Threshold: 10, RetentionFactor: 0.5})
	hot := unitcache.Lookup[owner, int](r, unitcache.TagYearMonths)
	cold := unitcache.Lookup[owner, int](r, unitcache.TagWeekDays)
	o := owner{"gregorian", 2021}

	hot.PutElement(o, 0, 7)
	for range 100 {
		_, _ = hot.Element(o, 0)
	}
	// The tenth cold entry takes the registry to 11 entries.
	for i := range 10 {
		cold.PutElement(o, i, i)
	}

	got, ok := hot.Element(o, 0)
	require.True(t, ok, "reused entry survives the purge")
	assert.Equal(t, 7, got)
	assert.Equal(t, 0, cold.Len())

	st := r.Stats()
	assert.Equal(t, 1, st.Entries)
	assert.Equal(t, uint64(1), st.Purges)
	assert.Equal(t, uint64(10), st.Evictions)
}

func TestRegistry_Clear(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.DefaultConfig())
	s := unitcache.Lookup[owner, int](r, unitcache.TagYearMonths)
	s.PutElement(owner{"g", 1}, 1, 1)
	s.PutIndex(owner{"g", 1}, 1, 1)
	require.Equal(t, 2, r.Len())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Stats().Entries)
}

func TestRegistry_Configure(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.Config{})
	assert.Equal(t, unitcache.DefaultConfig(), r.Config(), "zero config falls back to defaults")

	require.ErrorIs(t, r.Configure(unitcache.Config{Threshold: 0, RetentionFactor: 0.5}), unitcache.ErrInvalidThreshold)
	require.ErrorIs(t, r.Configure(unitcache.Config{Threshold: 10, RetentionFactor: 1.5}), unitcache.ErrInvalidRetention)
	require.NoError(t, r.Configure(unitcache.Config{Threshold: 10, RetentionFactor: 1}))
	assert.Equal(t, 10, r.Config().Threshold)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	r := unitcache.NewRegistry(unitcache.Config{Threshold: 64, RetentionFactor: 0.5})

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := unitcache.Lookup[owner, int](r, unitcache.TagMonthWeeks)
			for i := range 500 {
				o := owner{"gregorian", (g + i) % 40}
				if v, ok := s.Element(o, i%7); ok {
					assert.Equal(t, o.year*10+i%7, v)
					continue
				}
				s.PutElement(o, i%7, o.year*10+i%7)
			}
		}()
	}
	wg.Wait()

	before := r.Len()
	r.Purge()
	assert.LessOrEqual(t, r.Len(), before)
	assert.LessOrEqual(t, r.Len(), 40*7, "one entry per owner and position at most")
	assert.Positive(t, r.Stats().Purges)
}
