package price

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etnz/satstack"
)

// stubOracle returns a fixed quote, or an error when failing is set.
type stubOracle struct {
	calls   atomic.Int32
	failing atomic.Bool
	quote   satstack.Money
	delay   time.Duration
}

func (s *stubOracle) Current(ctx context.Context) (satstack.Money, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.failing.Load() {
		return satstack.Money{}, errors.New("feed down")
	}
	return s.quote, nil
}

func (s *stubOracle) Historical(ctx context.Context, on satstack.Date) (satstack.Money, error) {
	return s.Current(ctx)
}

func TestFallback_CachesCurrent(t *testing.T) {
	stub := &stubOracle{quote: satstack.USD(50000)}
	f := NewFallback(stub, time.Minute, satstack.Money{}, nil)

	for range 3 {
		got, err := f.Current(context.Background())
		if err != nil {
			t.Fatalf("Current() unexpected error: %v", err)
		}
		if !got.Equal(stub.quote) {
			t.Errorf("Current() = %s, want %s", got, stub.quote)
		}
	}
	if n := stub.calls.Load(); n != 1 {
		t.Errorf("oracle called %d times, want 1", n)
	}
}

func TestFallback_CollapsesConcurrentCalls(t *testing.T) {
	stub := &stubOracle{quote: satstack.USD(50000), delay: 50 * time.Millisecond}
	f := NewFallback(stub, time.Minute, satstack.Money{}, nil)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Current(context.Background()); err != nil {
				t.Errorf("Current() unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := stub.calls.Load(); n > 2 {
		t.Errorf("oracle called %d times for concurrent requests", n)
	}
}

func TestFallback_Degrades(t *testing.T) {
	stub := &stubOracle{quote: satstack.USD(50000)}
	stub.failing.Store(true)

	f := NewFallback(stub, time.Minute, satstack.Money{}, nil)
	if _, err := f.Current(context.Background()); err == nil {
		t.Error("Current() without quote nor estimate expected an error")
	}

	f = NewFallback(stub, time.Minute, satstack.USD(42000), nil)
	got, err := f.Current(context.Background())
	if err != nil || !got.Equal(satstack.USD(42000)) {
		t.Errorf("Current() = %s, %v, want the estimate", got, err)
	}

	// a known quote wins over the estimate.
	stub.failing.Store(false)
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error: %v", err)
	}
	stub.failing.Store(true)
	if err := f.Refresh(context.Background()); err == nil {
		t.Error("Refresh() expected the feed error")
	}
	got, err = f.Current(context.Background())
	if err != nil || !got.Equal(satstack.USD(50000)) {
		t.Errorf("Current() = %s, %v, want the last known quote", got, err)
	}
}

func TestFallback_HistoricalKeptForever(t *testing.T) {
	stub := &stubOracle{quote: satstack.USD(20000)}
	f := NewFallback(stub, time.Minute, satstack.Money{}, nil)
	on := satstack.NewDate(2023, time.June, 1)

	for range 2 {
		got, err := f.Historical(context.Background(), on)
		if err != nil || !got.Equal(satstack.USD(20000)) {
			t.Errorf("Historical() = %s, %v", got, err)
		}
	}
	if n := stub.calls.Load(); n != 1 {
		t.Errorf("oracle called %d times, want 1", n)
	}
}
