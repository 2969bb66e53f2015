package orders

import (
	"context"
	"time"

	"retailpro/models"
	"retailpro/pricing"
	"retailpro/utils"
)

// Repo is the persistence contract the order lifecycle needs: ordered
// reads, one atomic multi-document commit, and a conditional status
// update. The Mongo implementation lives in repo.go; tests plug in a mock.
type Repo interface {
	// CartLines returns the customer's cart, oldest first.
	CartLines(ctx context.Context, userID string) ([]models.CartLine, error)

	// MissingProducts returns the subset of ids with no catalog entry.
	MissingProducts(ctx context.Context, productIDs []string) ([]string, error)

	// CommitCheckout atomically creates the order with its lines and
	// deletes exactly the given cart snapshot. Returns
	// ErrConcurrencyConflict if any snapshot row changed or vanished since
	// it was read; in that case nothing is persisted.
	CommitCheckout(ctx context.Context, order *models.Order, lines []models.OrderLine, snapshot []models.CartLine) error

	// OrderByID loads one order, ErrOrderNotFound if absent.
	OrderByID(ctx context.Context, orderID string) (*models.Order, error)

	// ApplyTransition writes ch conditioned on the order still being in
	// from; ErrConcurrencyConflict if it no longer is. Returns the updated
	// order.
	ApplyTransition(ctx context.Context, orderID string, from Status, ch *Changes) (*models.Order, error)
}

// EventSink receives committed status changes for fan-out to subscribers.
type EventSink interface {
	Publish(ctx context.Context, ev models.OrderEvent)
}

// Service owns the checkout transaction and the status lifecycle. Totals
// and order lines are written exactly once, here; no other code path may
// mutate them.
type Service struct {
	repo   Repo
	events EventSink
	now    func() time.Time
}

func NewService(repo Repo, events EventSink) *Service {
	return &Service{repo: repo, events: events, now: time.Now}
}

// Checkout converts the customer's cart into an order. Pricing is
// computed from the cart snapshots read here; the catalog is consulted
// only to confirm the products still exist. The order, its lines and the
// cart deletion commit as one unit.
func (s *Service) Checkout(ctx context.Context, userID, tier string) (*models.Order, error) {
	if userID == "" {
		return nil, invalidf("checkout requires an authenticated customer")
	}
	if !pricing.ValidTier(tier) {
		return nil, invalidf("unknown delivery tier %q", tier)
	}

	snapshot, err := s.repo.CartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		return nil, invalidf("cart is empty")
	}

	ids := make([]string, 0, len(snapshot))
	for _, l := range snapshot {
		if l.Quantity < 1 {
			return nil, invalidf("product %s has invalid quantity %d", l.ProductID, l.Quantity)
		}
		ids = append(ids, l.ProductID)
	}
	missing, err := s.repo.MissingProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, invalidf("product %s no longer exists", missing[0])
	}

	now := s.now()
	quote, err := pricing.Compute(snapshot, tier, now)
	if err != nil {
		return nil, invalidf("%s", err.Error())
	}

	order := &models.Order{
		OrderID:          "ORD" + utils.GenerateRandomString(10),
		UserID:           userID,
		Subtotal:         quote.Subtotal,
		Tax:              quote.Tax,
		Shipping:         quote.Shipping,
		Total:            quote.Total,
		Status:           string(StatusPending),
		ShippingMethod:   tier,
		ExpectedDelivery: &quote.ExpectedDelivery,
		CreatedAt:        now,
	}

	lines := make([]models.OrderLine, 0, len(snapshot))
	for _, l := range snapshot {
		lines = append(lines, models.OrderLine{
			OrderID:   order.OrderID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := s.repo.CommitCheckout(ctx, order, lines, snapshot); err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(ctx, models.OrderEvent{
			OrderID:   order.OrderID,
			UserID:    order.UserID,
			NewStatus: order.Status,
			Timestamp: now,
		})
	}
	return order, nil
}

// Transition moves an order to req.Target, applying the required side
// effects in the same conditional write. Safe under retries and races:
// the write is keyed on the status read here.
func (s *Service) Transition(ctx context.Context, orderID string, req TransitionRequest) (*models.Order, error) {
	order, err := s.repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ch, err := Plan(order, req, now)
	if err != nil {
		return nil, err
	}
	if ch.NoOp {
		return order, nil
	}

	updated, err := s.repo.ApplyTransition(ctx, orderID, Status(order.Status), ch)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(ctx, models.OrderEvent{
			OrderID:   updated.OrderID,
			UserID:    updated.UserID,
			OldStatus: order.Status,
			NewStatus: updated.Status,
			Timestamp: now,
		})
	}
	return updated, nil
}

// Cancel is the customer-facing shortcut for Transition to cancelled,
// restricted to the order's owner.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.repo.OrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return s.Transition(ctx, orderID, TransitionRequest{Target: StatusCancelled})
}
