package orders

import (
	"time"

	"retailpro/models"
	"retailpro/pricing"
)

// Status of an order. Orders move pending -> processing -> shipped ->
// delivered; cancelled is reachable from any non-terminal state. Nothing
// leaves delivered or cancelled.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string { return string(s) }

// Known reports whether s is one of the five order statuses.
func Known(s Status) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionRequest asks to move an order to Target. Tracking fields are
// required when Target is shipped.
type TransitionRequest struct {
	Target          Status `json:"status"`
	TrackingNumber  string `json:"trackingNumber,omitempty"`
	ShippingCarrier string `json:"shippingCarrier,omitempty"`
}

// Changes is the full effect of one transition: the new status plus every
// field that must land in the same write.
type Changes struct {
	NoOp             bool
	Status           Status
	ShippedAt        *time.Time
	TrackingNumber   string
	ShippingCarrier  string
	ExpectedDelivery *time.Time
	DeliveredAt      *time.Time
}

// Plan validates req against the order's current state and returns the
// changes to apply. Re-requesting the current status is a no-op success.
// The caller must apply the result conditioned on the status Plan saw, so
// a racing transition surfaces as ErrConcurrencyConflict instead of a
// silent overwrite.
func Plan(o *models.Order, req TransitionRequest, now time.Time) (*Changes, error) {
	from := Status(o.Status)
	to := req.Target

	if !Known(to) {
		return nil, invalidf("unknown order status %q", to)
	}
	if to == from {
		return &Changes{NoOp: true, Status: from}, nil
	}
	if !CanTransition(from, to) {
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	ch := &Changes{Status: to}
	switch to {
	case StatusShipped:
		if req.TrackingNumber == "" {
			return nil, invalidf("tracking number is required to mark an order shipped")
		}
		if req.ShippingCarrier == "" {
			return nil, invalidf("shipping carrier is required to mark an order shipped")
		}
		ch.ShippedAt = &now
		ch.TrackingNumber = req.TrackingNumber
		ch.ShippingCarrier = req.ShippingCarrier
		if o.ExpectedDelivery == nil {
			d := pricing.DefaultShippedDelivery(now)
			ch.ExpectedDelivery = &d
		}
	case StatusDelivered:
		ch.DeliveredAt = &now
	}
	return ch, nil
}
