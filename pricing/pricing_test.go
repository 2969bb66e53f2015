package pricing

import (
	"testing"
	"time"

	"retailpro/currency"
	"retailpro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(price currency.Paise, qty int) models.CartLine {
	return models.CartLine{ProductID: "p1", Quantity: qty, UnitPrice: price}
}

func TestComputeStandardTier(t *testing.T) {
	// ₹1000 × 2, standard -> subtotal 2000, tax 360, shipping 100, total 2460
	now := time.Now()
	q, err := Compute([]models.CartLine{line(100000, 2)}, TierStandard, now)
	require.NoError(t, err)

	assert.Equal(t, currency.Paise(200000), q.Subtotal)
	assert.Equal(t, currency.Paise(36000), q.Tax)
	assert.Equal(t, currency.Paise(10000), q.Shipping)
	assert.Equal(t, currency.Paise(246000), q.Total)
	assert.Equal(t, now.AddDate(0, 0, 5), q.ExpectedDelivery)
}

func TestComputeFreeShippingAboveThreshold(t *testing.T) {
	// ₹3000 × 2, express -> subtotal 6000 > 5000 -> shipping 0, tax 1080, total 7080
	q, err := Compute([]models.CartLine{line(300000, 2)}, TierExpress, time.Now())
	require.NoError(t, err)

	assert.Equal(t, currency.Paise(600000), q.Subtotal)
	assert.Equal(t, currency.Paise(108000), q.Tax)
	assert.Equal(t, currency.Paise(0), q.Shipping)
	assert.Equal(t, currency.Paise(708000), q.Total)
}

func TestComputeThresholdIsExclusive(t *testing.T) {
	// exactly ₹5000 still pays the tier fee
	for tier, fee := range map[string]currency.Paise{
		TierExpress:  20000,
		TierStandard: 10000,
		TierEconomy:  5000,
	} {
		q, err := Compute([]models.CartLine{line(500000, 1)}, tier, time.Now())
		require.NoError(t, err)
		assert.Equal(t, fee, q.Shipping, "tier %s", tier)
	}

	// one paisa over is free
	q, err := Compute([]models.CartLine{line(500001, 1)}, TierEconomy, time.Now())
	require.NoError(t, err)
	assert.Equal(t, currency.Paise(0), q.Shipping)
}

func TestComputeTaxRoundsHalfUp(t *testing.T) {
	// 18% of 3 paise = 0.54 -> 1 paisa
	q, err := Compute([]models.CartLine{line(3, 1)}, TierEconomy, time.Now())
	require.NoError(t, err)
	assert.Equal(t, currency.Paise(1), q.Tax)
}

func TestComputeTotalIdentity(t *testing.T) {
	carts := [][]models.CartLine{
		{line(100000, 2)},
		{line(300000, 2)},
		{line(99, 3), line(4999, 1), line(1299900, 1)},
		{line(1, 1)},
		{},
	}
	for _, lines := range carts {
		for tier := range tiers {
			q, err := Compute(lines, tier, time.Now())
			require.NoError(t, err)
			assert.Equal(t, q.Subtotal+q.Tax+q.Shipping, q.Total)
			assert.GreaterOrEqual(t, int64(q.Subtotal), int64(0))
			assert.GreaterOrEqual(t, int64(q.Tax), int64(0))
			assert.GreaterOrEqual(t, int64(q.Shipping), int64(0))
		}
	}
}

func TestComputeEmptyCartIsZero(t *testing.T) {
	q, err := Compute(nil, TierStandard, time.Now())
	require.NoError(t, err)
	assert.Equal(t, currency.Paise(0), q.Subtotal)
	assert.Equal(t, currency.Paise(0), q.Tax)
	// an empty cart is below the free-shipping threshold, so the fee applies
	assert.Equal(t, currency.Paise(10000), q.Shipping)
}

func TestComputeDeliveryDays(t *testing.T) {
	now := time.Now()
	days := map[string]int{TierExpress: 2, TierStandard: 5, TierEconomy: 8}
	for tier, d := range days {
		q, err := Compute([]models.CartLine{line(100, 1)}, tier, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, d), q.ExpectedDelivery)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	_, err := Compute([]models.CartLine{line(100, 0)}, TierStandard, time.Now())
	assert.Error(t, err)

	_, err = Compute([]models.CartLine{line(-5, 1)}, TierStandard, time.Now())
	assert.Error(t, err)

	_, err = Compute([]models.CartLine{line(100, 1)}, "overnight", time.Now())
	assert.Error(t, err)
}

func TestValidTier(t *testing.T) {
	assert.True(t, ValidTier(TierExpress))
	assert.True(t, ValidTier(TierStandard))
	assert.True(t, ValidTier(TierEconomy))
	assert.False(t, ValidTier("drone"))
	assert.False(t, ValidTier(""))
}
