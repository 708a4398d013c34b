package price

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/satstack"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const currentKey = "current"

// Fallback wraps an Oracle so that a failing feed degrades to the last known
// quote, or to a fixed estimate when no quote was ever obtained.
//
// It is safe for concurrent use. Concurrent requests for the same quote are
// collapsed into a single call to the wrapped oracle.
type Fallback struct {
	oracle   Oracle
	fresh    *cache.Cache // quotes still considered current.
	last     *cache.Cache // last known quotes, never expire.
	group    singleflight.Group
	estimate satstack.Money
	log      *zap.SugaredLogger
}

// NewFallback creates a Fallback around oracle. Current quotes are reused
// during ttl. A zero estimate means no estimate: the error is returned.
func NewFallback(oracle Oracle, ttl time.Duration, estimate satstack.Money, log *zap.SugaredLogger) *Fallback {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Fallback{
		oracle:   oracle,
		fresh:    cache.New(ttl, 2*ttl),
		last:     cache.New(cache.NoExpiration, 0),
		estimate: estimate,
		log:      log,
	}
}

// Current implements Oracle.
func (f *Fallback) Current(ctx context.Context) (satstack.Money, error) {
	if v, ok := f.fresh.Get(currentKey); ok {
		return v.(satstack.Money), nil
	}
	return f.fetch(currentKey, func() (satstack.Money, error) {
		m, err := f.oracle.Current(ctx)
		if err == nil {
			f.fresh.SetDefault(currentKey, m)
		}
		return m, err
	})
}

// Historical implements Oracle. Past prices do not change, they are kept
// forever once obtained.
func (f *Fallback) Historical(ctx context.Context, on satstack.Date) (satstack.Money, error) {
	key := on.String()
	if !on.Before(satstack.Today()) {
		return f.Current(ctx)
	}
	if v, ok := f.last.Get(key); ok {
		return v.(satstack.Money), nil
	}
	return f.fetch(key, func() (satstack.Money, error) { return f.oracle.Historical(ctx, on) })
}

// Refresh fetches the current quote, bypassing the cache. It is meant to be
// scheduled.
func (f *Fallback) Refresh(ctx context.Context) error {
	f.fresh.Delete(currentKey)
	_, err := f.fetchStrict(currentKey, func() (satstack.Money, error) {
		m, err := f.oracle.Current(ctx)
		if err == nil {
			f.fresh.SetDefault(currentKey, m)
		}
		return m, err
	})
	return err
}

// fetch calls get once for all concurrent callers of the same key and falls
// back on failure.
func (f *Fallback) fetch(key string, get func() (satstack.Money, error)) (satstack.Money, error) {
	m, err := f.fetchStrict(key, get)
	if err == nil {
		return m, nil
	}
	if v, ok := f.last.Get(key); ok {
		f.log.Warnw("price feed failed, using last known quote", "key", key, "error", err)
		return v.(satstack.Money), nil
	}
	if !f.estimate.IsZero() {
		f.log.Warnw("price feed failed, using estimate", "key", key, "estimate", f.estimate.String(), "error", err)
		return f.estimate, nil
	}
	return satstack.Money{}, err
}

func (f *Fallback) fetchStrict(key string, get func() (satstack.Money, error)) (satstack.Money, error) {
	v, err, _ := f.group.Do(key, func() (any, error) {
		m, err := get()
		if err != nil {
			return nil, err
		}
		f.last.Set(key, m, cache.NoExpiration)
		return m, nil
	})
	if err != nil {
		return satstack.Money{}, fmt.Errorf("cannot get %s bitcoin price: %w", key, err)
	}
	return v.(satstack.Money), nil
}
