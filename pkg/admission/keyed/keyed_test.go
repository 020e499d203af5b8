package keyed

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/gopace/internal/testutil"
	"github.com/vnykmshr/gopace/pkg/admission/bucket"
	gperrors "github.com/vnykmshr/gopace/pkg/common/errors"
	"github.com/vnykmshr/gopace/pkg/metrics"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		rate     bucket.Rate
		wantErr  bool
	}{
		{"valid parameters", 10, 5, false},
		{"zero capacity", 0, 5, true},
		{"zero rate", 10, 0, true},
		{"negative rate", 10, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := New(tt.capacity, tt.rate)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for invalid parameters")
				}
				if !errors.Is(err, gperrors.ErrInvalidConfiguration) {
					t.Errorf("error should wrap ErrInvalidConfiguration, got %v", err)
				}
			} else {
				testutil.AssertNoError(t, err)
				testutil.AssertEqual(t, limiter.Len(), 0)
			}
		})
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	limiter, err := NewWithConfig(bucket.Config{
		Capacity:      2,
		Rate:          1,
		Clock:         clock,
		InitialTokens: -1,
	})
	testutil.AssertNoError(t, err)

	// Exhaust key "a".
	for i := 0; i < 2; i++ {
		d, err := limiter.Allow("a")
		testutil.AssertNoError(t, err)
		if !d.Allowed {
			t.Fatalf("call %d for key a should be allowed", i+1)
		}
	}
	d, err := limiter.Allow("a")
	testutil.AssertNoError(t, err)
	if d.Allowed {
		t.Fatal("key a should be exhausted")
	}

	// Key "b" still has its full burst.
	d, err = limiter.Allow("b")
	testutil.AssertNoError(t, err)
	if !d.Allowed {
		t.Error("key b should be unaffected by key a")
	}

	testutil.AssertEqual(t, limiter.Len(), 2)
}

func TestAllowN_EmptyKey(t *testing.T) {
	limiter, err := New(10, 5)
	testutil.AssertNoError(t, err)

	_, err = limiter.Allow("")
	if err == nil {
		t.Fatal("expected error for empty key")
	}
	if !errors.Is(err, gperrors.ErrInvalidArgument) {
		t.Errorf("error should wrap ErrInvalidArgument, got %v", err)
	}
	testutil.AssertEqual(t, limiter.Len(), 0)
}

func TestAllowN_InvalidCost(t *testing.T) {
	limiter, err := New(10, 5)
	testutil.AssertNoError(t, err)

	_, err = limiter.AllowN("a", -1)
	if !errors.Is(err, gperrors.ErrInvalidArgument) {
		t.Errorf("error should wrap ErrInvalidArgument, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	limiter, err := NewWithConfig(bucket.Config{
		Capacity:      5,
		Rate:          1,
		Clock:         clock,
		InitialTokens: -1,
	})
	testutil.AssertNoError(t, err)

	limiter.Allow("a")
	limiter.Allow("b")
	clock.Advance(10 * time.Minute)
	limiter.Allow("c")

	// Only the stale keys go.
	evicted := limiter.Prune(5 * time.Minute)
	testutil.AssertEqual(t, evicted, 2)
	testutil.AssertEqual(t, limiter.Len(), 1)

	// A pruned key comes back with a fresh full bucket.
	d, err := limiter.Allow("a")
	testutil.AssertNoError(t, err)
	if !d.Allowed {
		t.Error("pruned key should get a fresh bucket")
	}
	testutil.AssertEqual(t, limiter.Len(), 2)
}

func TestPrune_KeepsActiveKeys(t *testing.T) {
	clock := testutil.NewMockClock(time.Now())
	limiter, err := NewWithConfig(bucket.Config{
		Capacity:      5,
		Rate:          1,
		Clock:         clock,
		InitialTokens: -1,
	})
	testutil.AssertNoError(t, err)

	d, err := limiter.Allow("active")
	testutil.AssertNoError(t, err)
	if !d.Allowed {
		t.Fatal("first call on a fresh key should be allowed")
	}
	testutil.AssertEqual(t, limiter.Prune(time.Minute), 0)
	testutil.AssertEqual(t, limiter.Len(), 1)
}

func TestKeyedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	clock := testutil.NewMockClock(time.Now())
	limiter, err := NewWithConfigAndMetrics(bucket.Config{
		Capacity:      5,
		Rate:          1,
		Clock:         clock,
		InitialTokens: -1,
	}, "tenants", metrics.Config{Enabled: true, Registry: reg})
	testutil.AssertNoError(t, err)

	limiter.Allow("a")
	limiter.Allow("b")

	buckets := promtestutil.ToFloat64(limiter.registry.KeyedBuckets.WithLabelValues("tenants"))
	testutil.AssertEqual(t, buckets, 2.0)

	clock.Advance(time.Hour)
	limiter.Prune(time.Minute)

	pruned := promtestutil.ToFloat64(limiter.registry.KeyedPruned.WithLabelValues("tenants"))
	testutil.AssertEqual(t, pruned, 2.0)
}

func TestConcurrentKeys(t *testing.T) {
	const capacityPerKey = 50
	const numKeys = 4
	const numGoroutines = 8
	const callsPerGoroutine = 100

	limiter, err := New(capacityPerKey, bucket.Every(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var allowed atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", worker%numKeys)
			for j := 0; j < callsPerGoroutine; j++ {
				d, err := limiter.Allow(key)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if d.Allowed {
					allowed.Add(1)
				}
			}
		}(i)
	}
	wg.Wait()

	// Each key admits exactly its burst; no cross-key leakage and no
	// over-admission under contention.
	if got := allowed.Load(); got != capacityPerKey*numKeys {
		t.Errorf("allowed = %d, want exactly %d", got, capacityPerKey*numKeys)
	}
	testutil.AssertEqual(t, limiter.Len(), numKeys)
}
