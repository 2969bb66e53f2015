package orders

import (
	"testing"
	"time"

	"retailpro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// Exhaustive transition table. Everything not listed as legal must be
// rejected.
func TestCanTransitionTable(t *testing.T) {
	legal := map[Status]map[Status]bool{
		StatusPending:    {StatusProcessing: true, StatusShipped: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legal[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func pendingOrder() *models.Order {
	return &models.Order{OrderID: "ORD1", UserID: "u1", Status: string(StatusPending)}
}

func TestPlanSameStatusIsNoOp(t *testing.T) {
	ch, err := Plan(pendingOrder(), TransitionRequest{Target: StatusPending}, time.Now())
	require.NoError(t, err)
	assert.True(t, ch.NoOp)
}

func TestPlanPendingToDeliveredRejected(t *testing.T) {
	_, err := Plan(pendingOrder(), TransitionRequest{Target: StatusDelivered}, time.Now())
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))
}

func TestPlanTerminalStatesRejectEverything(t *testing.T) {
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		for _, to := range allStatuses {
			if to == terminal {
				continue // idempotent no-op, covered elsewhere
			}
			o := pendingOrder()
			o.Status = string(terminal)
			_, err := Plan(o, TransitionRequest{Target: to, TrackingNumber: "T", ShippingCarrier: "DHL"}, time.Now())
			require.Error(t, err, "%s -> %s", terminal, to)
			assert.True(t, IsInvalidTransition(err), "%s -> %s", terminal, to)
		}
	}
}

func TestPlanShippedRequiresTracking(t *testing.T) {
	o := pendingOrder()
	o.Status = string(StatusProcessing)

	_, err := Plan(o, TransitionRequest{Target: StatusShipped, ShippingCarrier: "DHL"}, time.Now())
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = Plan(o, TransitionRequest{Target: StatusShipped, TrackingNumber: "TRK42"}, time.Now())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestPlanShippedSetsFields(t *testing.T) {
	now := time.Now()
	o := pendingOrder()
	o.Status = string(StatusProcessing)

	ch, err := Plan(o, TransitionRequest{Target: StatusShipped, TrackingNumber: "TRK42", ShippingCarrier: "BlueDart"}, now)
	require.NoError(t, err)

	assert.Equal(t, StatusShipped, ch.Status)
	require.NotNil(t, ch.ShippedAt)
	assert.Equal(t, now, *ch.ShippedAt)
	assert.Equal(t, "TRK42", ch.TrackingNumber)
	assert.Equal(t, "BlueDart", ch.ShippingCarrier)
	require.NotNil(t, ch.ExpectedDelivery)
	assert.Equal(t, now.AddDate(0, 0, 5), *ch.ExpectedDelivery)
}

func TestPlanShippedKeepsExistingDeliveryEstimate(t *testing.T) {
	now := time.Now()
	est := now.AddDate(0, 0, 2)
	o := pendingOrder()
	o.ExpectedDelivery = &est

	ch, err := Plan(o, TransitionRequest{Target: StatusShipped, TrackingNumber: "TRK42", ShippingCarrier: "FedEx"}, now)
	require.NoError(t, err)
	assert.Nil(t, ch.ExpectedDelivery)
}

func TestPlanDeliveredSetsTimestamp(t *testing.T) {
	now := time.Now()
	o := pendingOrder()
	o.Status = string(StatusShipped)

	ch, err := Plan(o, TransitionRequest{Target: StatusDelivered}, now)
	require.NoError(t, err)
	require.NotNil(t, ch.DeliveredAt)
	assert.Equal(t, now, *ch.DeliveredAt)
}

func TestPlanCancelledFromAnyNonTerminal(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusProcessing, StatusShipped} {
		o := pendingOrder()
		o.Status = string(from)
		ch, err := Plan(o, TransitionRequest{Target: StatusCancelled}, time.Now())
		require.NoError(t, err, "from %s", from)
		assert.Equal(t, StatusCancelled, ch.Status)
		assert.Nil(t, ch.ShippedAt)
		assert.Nil(t, ch.DeliveredAt)
	}
}

func TestPlanUnknownStatusRejected(t *testing.T) {
	_, err := Plan(pendingOrder(), TransitionRequest{Target: "returned"}, time.Now())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
