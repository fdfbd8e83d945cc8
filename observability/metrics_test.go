package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOperationsReturnsSingleton(t *testing.T) {
	if Operations() != Operations() {
		t.Fatalf("Operations must return the shared registry")
	}
}

func TestObserveOperation(t *testing.T) {
	m := Operations()
	before := testutil.ToFloat64(m.operations.WithLabelValues("award_points", "ok"))
	m.ObserveOperation("award_points", "ok")
	after := testutil.ToFloat64(m.operations.WithLabelValues("award_points", "ok"))
	if after != before+1 {
		t.Fatalf("counter not incremented: %f -> %f", before, after)
	}
}

func TestObserveConflict(t *testing.T) {
	m := Operations()
	before := testutil.ToFloat64(m.conflicts.WithLabelValues("pass"))
	m.ObserveConflict("pass")
	after := testutil.ToFloat64(m.conflicts.WithLabelValues("pass"))
	if after != before+1 {
		t.Fatalf("counter not incremented: %f -> %f", before, after)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *OperationMetrics
	m.ObserveOperation("x", "ok")
	m.ObserveConflict("pass")
	m.ObserveSubmit("ok", time.Millisecond)
}
