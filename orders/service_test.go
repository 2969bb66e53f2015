package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"retailpro/currency"
	"retailpro/models"
	"retailpro/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepo implements Repo in memory for service tests.
type mockRepo struct {
	cart    []models.CartLine
	cartErr error

	missing []string

	commitErr       error
	committedOrder  *models.Order
	committedLines  []models.OrderLine
	committedSnap   []models.CartLine
	commitCallCount int

	order         *models.Order
	orderErr      error
	applyErr      error
	appliedFrom   Status
	appliedChange *Changes
}

func (m *mockRepo) CartLines(_ context.Context, _ string) ([]models.CartLine, error) {
	return m.cart, m.cartErr
}

func (m *mockRepo) MissingProducts(_ context.Context, _ []string) ([]string, error) {
	return m.missing, nil
}

func (m *mockRepo) CommitCheckout(_ context.Context, order *models.Order, lines []models.OrderLine, snapshot []models.CartLine) error {
	m.commitCallCount++
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committedOrder = order
	m.committedLines = lines
	m.committedSnap = snapshot
	return nil
}

func (m *mockRepo) OrderByID(_ context.Context, _ string) (*models.Order, error) {
	return m.order, m.orderErr
}

func (m *mockRepo) ApplyTransition(_ context.Context, _ string, from Status, ch *Changes) (*models.Order, error) {
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	m.appliedFrom = from
	m.appliedChange = ch
	updated := *m.order
	updated.Status = string(ch.Status)
	return &updated, nil
}

type capturedEvents struct {
	events []models.OrderEvent
}

func (c *capturedEvents) Publish(_ context.Context, ev models.OrderEvent) {
	c.events = append(c.events, ev)
}

func cartLine(id, productID string, qty int, price currency.Paise) models.CartLine {
	return models.CartLine{
		LineID:    id,
		UserID:    "u1",
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: price,
		AddedAt:   time.Now(),
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	svc := NewService(&mockRepo{}, nil)
	_, err := svc.Checkout(context.Background(), "u1", pricing.TierStandard)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCheckoutUnknownTierRejected(t *testing.T) {
	repo := &mockRepo{cart: []models.CartLine{cartLine("l1", "p1", 1, 100)}}
	svc := NewService(repo, nil)
	_, err := svc.Checkout(context.Background(), "u1", "drone")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, repo.commitCallCount)
}

func TestCheckoutUnauthenticatedRejected(t *testing.T) {
	svc := NewService(&mockRepo{}, nil)
	_, err := svc.Checkout(context.Background(), "", pricing.TierStandard)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCheckoutMissingProductRejected(t *testing.T) {
	repo := &mockRepo{
		cart:    []models.CartLine{cartLine("l1", "p1", 1, 100)},
		missing: []string{"p1"},
	}
	svc := NewService(repo, nil)
	_, err := svc.Checkout(context.Background(), "u1", pricing.TierStandard)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Zero(t, repo.commitCallCount)
}

func TestCheckoutComputesTotalsFromSnapshot(t *testing.T) {
	repo := &mockRepo{cart: []models.CartLine{
		cartLine("l1", "p1", 2, 100000), // ₹1000 × 2
	}}
	sink := &capturedEvents{}
	svc := NewService(repo, sink)

	order, err := svc.Checkout(context.Background(), "u1", pricing.TierStandard)
	require.NoError(t, err)

	assert.Equal(t, currency.Paise(200000), order.Subtotal)
	assert.Equal(t, currency.Paise(36000), order.Tax)
	assert.Equal(t, currency.Paise(10000), order.Shipping)
	assert.Equal(t, currency.Paise(246000), order.Total)
	assert.Equal(t, order.Subtotal+order.Tax+order.Shipping, order.Total)
	assert.Equal(t, string(StatusPending), order.Status)
	assert.Equal(t, pricing.TierStandard, order.ShippingMethod)
	require.NotNil(t, order.ExpectedDelivery)
	assert.Equal(t, "u1", order.UserID)
	assert.NotEmpty(t, order.OrderID)

	// lines copy snapshot quantity and price
	require.Len(t, repo.committedLines, 1)
	assert.Equal(t, order.OrderID, repo.committedLines[0].OrderID)
	assert.Equal(t, "p1", repo.committedLines[0].ProductID)
	assert.Equal(t, 2, repo.committedLines[0].Quantity)
	assert.Equal(t, currency.Paise(100000), repo.committedLines[0].UnitPrice)

	// the exact snapshot read is what gets cleared
	assert.Equal(t, repo.cart, repo.committedSnap)

	// creation emits a pending event
	require.Len(t, sink.events, 1)
	assert.Equal(t, order.OrderID, sink.events[0].OrderID)
	assert.Equal(t, "", sink.events[0].OldStatus)
	assert.Equal(t, string(StatusPending), sink.events[0].NewStatus)
}

func TestCheckoutFreeShippingOverThreshold(t *testing.T) {
	repo := &mockRepo{cart: []models.CartLine{
		cartLine("l1", "p1", 2, 300000), // ₹3000 × 2 = ₹6000
	}}
	svc := NewService(repo, nil)

	order, err := svc.Checkout(context.Background(), "u1", pricing.TierExpress)
	require.NoError(t, err)
	assert.Equal(t, currency.Paise(600000), order.Subtotal)
	assert.Equal(t, currency.Paise(0), order.Shipping)
	assert.Equal(t, currency.Paise(108000), order.Tax)
	assert.Equal(t, currency.Paise(708000), order.Total)
}

func TestCheckoutConflictPropagatesWithoutEvent(t *testing.T) {
	repo := &mockRepo{
		cart:      []models.CartLine{cartLine("l1", "p1", 1, 100)},
		commitErr: ErrConcurrencyConflict,
	}
	sink := &capturedEvents{}
	svc := NewService(repo, sink)

	_, err := svc.Checkout(context.Background(), "u1", pricing.TierEconomy)
	require.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Empty(t, sink.events)
}

func TestCheckoutStoreFailureClassified(t *testing.T) {
	repo := &mockRepo{
		cart:      []models.CartLine{cartLine("l1", "p1", 1, 100)},
		commitErr: storeErr(errors.New("connection reset")),
	}
	svc := NewService(repo, nil)

	_, err := svc.Checkout(context.Background(), "u1", pricing.TierEconomy)
	require.Error(t, err)
	assert.True(t, IsStoreUnavailable(err))
}

func TestTransitionNoOpEmitsNothing(t *testing.T) {
	repo := &mockRepo{order: &models.Order{OrderID: "ORD1", UserID: "u1", Status: string(StatusPending)}}
	sink := &capturedEvents{}
	svc := NewService(repo, sink)

	got, err := svc.Transition(context.Background(), "ORD1", TransitionRequest{Target: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, string(StatusPending), got.Status)
	assert.Nil(t, repo.appliedChange)
	assert.Empty(t, sink.events)
}

func TestTransitionIllegalLeavesStateAndEmitsNothing(t *testing.T) {
	repo := &mockRepo{order: &models.Order{OrderID: "ORD1", UserID: "u1", Status: string(StatusPending)}}
	sink := &capturedEvents{}
	svc := NewService(repo, sink)

	_, err := svc.Transition(context.Background(), "ORD1", TransitionRequest{Target: StatusDelivered})
	require.Error(t, err)
	assert.True(t, IsInvalidTransition(err))
	assert.Nil(t, repo.appliedChange)
	assert.Empty(t, sink.events)
}

func TestTransitionSuccessEmitsEvent(t *testing.T) {
	repo := &mockRepo{order: &models.Order{OrderID: "ORD1", UserID: "u1", Status: string(StatusPending)}}
	sink := &capturedEvents{}
	svc := NewService(repo, sink)

	got, err := svc.Transition(context.Background(), "ORD1", TransitionRequest{Target: StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, string(StatusProcessing), got.Status)
	assert.Equal(t, StatusPending, repo.appliedFrom)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "ORD1", sink.events[0].OrderID)
	assert.Equal(t, string(StatusPending), sink.events[0].OldStatus)
	assert.Equal(t, string(StatusProcessing), sink.events[0].NewStatus)
	assert.False(t, sink.events[0].Timestamp.IsZero())
}

func TestTransitionRacePropagatesConflict(t *testing.T) {
	repo := &mockRepo{
		order:    &models.Order{OrderID: "ORD1", UserID: "u1", Status: string(StatusPending)},
		applyErr: ErrConcurrencyConflict,
	}
	svc := NewService(repo, &capturedEvents{})

	_, err := svc.Transition(context.Background(), "ORD1", TransitionRequest{Target: StatusProcessing})
	require.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestCancelChecksOwnership(t *testing.T) {
	repo := &mockRepo{order: &models.Order{OrderID: "ORD1", UserID: "u1", Status: string(StatusPending)}}
	svc := NewService(repo, &capturedEvents{})

	_, err := svc.Cancel(context.Background(), "intruder", "ORD1")
	require.ErrorIs(t, err, ErrOrderNotFound)

	got, err := svc.Cancel(context.Background(), "u1", "ORD1")
	require.NoError(t, err)
	assert.Equal(t, string(StatusCancelled), got.Status)
}
