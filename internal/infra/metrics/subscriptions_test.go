//go:build !integration

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"jobportal-subscription/internal/domain/model"
)

func TestSetSubscriptionsTotal(t *testing.T) {
	gauge := func(status string) float64 {
		return testutil.ToFloat64(subscriptionsTotal.WithLabelValues(status))
	}

	SetSubscriptionsTotal(map[model.SubscriptionStatus]int{
		model.SubscriptionStatusActive:  3,
		model.SubscriptionStatusExpired: 1,
	})
	if got := gauge("active"); got != 3 {
		t.Errorf("active: got %v, want 3", got)
	}
	if got := gauge("expired"); got != 1 {
		t.Errorf("expired: got %v, want 1", got)
	}
	if got := gauge("pending"); got != 0 {
		t.Errorf("pending: got %v, want 0", got)
	}

	// the last active row disappears; the gauge must follow it down
	SetSubscriptionsTotal(map[model.SubscriptionStatus]int{
		model.SubscriptionStatusExpired: 4,
	})
	if got := gauge("active"); got != 0 {
		t.Errorf("active after drop: got %v, want 0", got)
	}
	if got := gauge("expired"); got != 4 {
		t.Errorf("expired after drop: got %v, want 4", got)
	}
}
