package sqlite

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

func TestStoreMetricsCountLoadsAndFlushes(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewStore(WithMetrics(reg), WithLogger(zap.NewNop()))
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	if err := s.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer s.Detach()

	owner := types.OwnerRef{ID: "post-1", Kind: "post"}
	c := s.Collection(owner, "comments")
	c.Add("a")
	c.Add("b")
	if err := s.Flush(c); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if _, err := s.Collection(owner, "comments").Values(); err != nil {
		t.Fatalf("Values failed: %v", err)
	}

	if got := testutil.ToFloat64(s.metrics.flushes); got != 1 {
		t.Errorf("flushes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.flushedRows); got != 2 {
		t.Errorf("flushed rows = %v, want 2", got)
	}
	// Flush initializes the collection (one empty load), the reload is the second.
	if got := testutil.ToFloat64(s.metrics.loads); got != 2 {
		t.Errorf("loads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.metrics.loadedElements); got != 2 {
		t.Errorf("loaded elements = %v, want 2", got)
	}
}

func TestStoreWithoutMetricsIsNoop(t *testing.T) {
	s := NewStore()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	if err := s.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer s.Detach()

	owner := types.OwnerRef{ID: "post-1", Kind: "post"}
	c := s.Collection(owner, "comments")
	c.Add("a")

	// Must not panic with a nil metrics receiver.
	if err := s.Flush(c); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
}
