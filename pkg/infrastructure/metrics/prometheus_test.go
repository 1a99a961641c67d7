package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/rack/{id}/", "GET", "200"))
	ObserveRequest("/api/rack/{id}/", "GET", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("/api/rack/{id}/", "GET", "200"))

	if after-before != 1 {
		t.Errorf("Expected request counter to grow by 1, grew by %v", after-before)
	}
}

func TestObserveRackSide(t *testing.T) {
	ObserveRackSide(1, "front", 7, nil)
	if got := testutil.ToFloat64(RackEmptyUnits.WithLabelValues("1", "front")); got != 7 {
		t.Errorf("Expected 7 empty units, got %v", got)
	}

	before := testutil.ToFloat64(RackResolutions.WithLabelValues("back", "error"))
	ObserveRackSide(1, "back", 0, errors.New("invalid rack height"))
	after := testutil.ToFloat64(RackResolutions.WithLabelValues("back", "error"))
	if after-before != 1 {
		t.Errorf("Expected error counter to grow by 1, grew by %v", after-before)
	}
}
