package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-hero-metrics/internal/model"
)

var sheetKey = Key{Location: "1DU1JpW27oOWjhTijTSW2tBGyMjHGioCW_E8V1syhAkE", Sheet: "Game Records"}

func records(n int) []model.MatchRecord {
	out := make([]model.MatchRecord, n)
	for i := range out {
		out[i] = model.MatchRecord{SelfClass: "Wizard", OpponentClass: "Thief", SelfLevel: i + 1, Turns: 5}
	}
	return out
}

func countingLoader(calls *int32, recs []model.MatchRecord) Loader {
	return func(ctx context.Context) ([]model.MatchRecord, error) {
		atomic.AddInt32(calls, 1)
		return recs, nil
	}
}

func TestLoad_MissThenHit(t *testing.T) {
	c := New(0)
	var calls int32
	load := countingLoader(&calls, records(3))

	recs, hit, err := c.Load(context.Background(), sheetKey, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, recs, 3)

	recs, hit, err = c.Load(context.Background(), sheetKey, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Len(t, recs, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_ReturnsCopy(t *testing.T) {
	c := New(0)
	c.Put(sheetKey, records(2))

	first, ok := c.Get(sheetKey)
	require.True(t, ok)
	first[0].SelfClass = "Mutated"

	second, ok := c.Get(sheetKey)
	require.True(t, ok)
	assert.Equal(t, "Wizard", second[0].SelfClass)
}

func TestInvalidateAndClear(t *testing.T) {
	c := New(0)
	other := Key{Location: "games.csv"}
	c.Put(sheetKey, records(1))
	c.Put(other, records(1))
	assert.Equal(t, 2, c.Len())

	c.Invalidate(sheetKey)
	_, ok := c.Get(sheetKey)
	assert.False(t, ok)
	_, ok = c.Get(other)
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestRefresh_ReplacesEntry(t *testing.T) {
	c := New(0)
	c.Put(sheetKey, records(1))

	recs, err := c.Refresh(context.Background(), sheetKey, func(ctx context.Context) ([]model.MatchRecord, error) {
		return records(4), nil
	})
	require.NoError(t, err)
	assert.Len(t, recs, 4)

	cached, ok := c.Get(sheetKey)
	require.True(t, ok)
	assert.Len(t, cached, 4)
}

func TestRefresh_FailureKeepsPrevious(t *testing.T) {
	c := New(0)
	c.Put(sheetKey, records(2))

	_, err := c.Refresh(context.Background(), sheetKey, func(ctx context.Context) ([]model.MatchRecord, error) {
		return nil, errors.New("fetch failed")
	})
	require.Error(t, err)

	cached, ok := c.Get(sheetKey)
	require.True(t, ok)
	assert.Len(t, cached, 2)
}

func TestTTLExpiry(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Put(sheetKey, records(1))
	_, ok := c.Get(sheetKey)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(sheetKey)
	assert.False(t, ok, "entry should expire after TTL")
}

func TestLoad_ConcurrentCallersShareOneLoad(t *testing.T) {
	c := New(0)
	var calls int32
	release := make(chan struct{})
	load := func(ctx context.Context) ([]model.MatchRecord, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return records(2), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recs, _, err := c.Load(context.Background(), sheetKey, load)
			assert.NoError(t, err)
			assert.Len(t, recs, 2)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	_, ok := c.Get(sheetKey)
	assert.True(t, ok)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "games.csv", Key{Location: "games.csv"}.String())
	assert.Equal(t, "abc#Game Records", Key{Location: "abc", Sheet: "Game Records"}.String())
}

func TestLoad_DistinctKeysWithSameStringLoadSeparately(t *testing.T) {
	c := New(0)
	a := Key{Location: "x#y"}
	b := Key{Location: "x", Sheet: "y"}
	require.Equal(t, a.String(), b.String())

	started := make(chan struct{})
	release := make(chan struct{})
	loadA := func(ctx context.Context) ([]model.MatchRecord, error) {
		close(started)
		<-release
		return records(2), nil
	}
	loadB := func(ctx context.Context) ([]model.MatchRecord, error) {
		return records(3), nil
	}

	var gotA []model.MatchRecord
	done := make(chan struct{})
	go func() {
		defer close(done)
		recs, _, err := c.Load(context.Background(), a, loadA)
		assert.NoError(t, err)
		gotA = recs
	}()
	<-started

	gotB, hit, err := c.Load(context.Background(), b, loadB)
	require.NoError(t, err)
	assert.False(t, hit)
	close(release)
	<-done

	assert.Len(t, gotA, 2)
	assert.Len(t, gotB, 3)
	cachedA, ok := c.Get(a)
	require.True(t, ok)
	assert.Len(t, cachedA, 2)
	cachedB, ok := c.Get(b)
	require.True(t, ok)
	assert.Len(t, cachedB, 3)
}
