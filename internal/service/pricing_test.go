package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAccommodationCost(t *testing.T) {
	tests := []struct {
		name   string
		nights int
		lines  []CostLine
		want   string
	}{
		{"single room three nights", 3, []CostLine{{d("100.00"), 1}}, "300.00"},
		{"several types", 2, []CostLine{{d("100.00"), 2}, {d("55.50"), 1}}, "511.00"},
		{"rounds once at the end", 1, []CostLine{{d("0.005"), 1}, {d("0.005"), 1}}, "0.01"},
		{"half up", 1, []CostLine{{d("33.335"), 1}}, "33.34"},
		{"no lines", 4, nil, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AccommodationCost(tt.nights, tt.lines)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestAccommodationCost_Deterministic(t *testing.T) {
	lines := []CostLine{{d("89.99"), 3}, {d("120.10"), 1}}
	first := AccommodationCost(5, lines)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(AccommodationCost(5, lines)))
	}
}

func TestDepositAmount(t *testing.T) {
	assert.Equal(t, "30.00", DepositAmount(d("100.00")).StringFixed(2))
	assert.Equal(t, "10.00", DepositAmount(d("33.33")).StringFixed(2))
	assert.Equal(t, "0.02", DepositAmount(d("0.05")).StringFixed(2))
}

func TestPlanPayment(t *testing.T) {
	cost := d("250.00")

	amount, typ, reason, err := planPayment(model.PlanFullPrepay, cost)
	assert.NoError(t, err)
	assert.True(t, cost.Equal(amount))
	assert.Equal(t, model.PaymentCard, typ)
	assert.Equal(t, model.ReasonAccommodationPrepaid, reason)

	amount, typ, reason, err = planPayment(model.PlanReservationDeposit, cost)
	assert.NoError(t, err)
	assert.Equal(t, "75.00", amount.StringFixed(2))
	assert.Equal(t, model.PaymentCard, typ)
	assert.Equal(t, model.ReasonDeposit, reason)

	amount, typ, reason, err = planPayment(model.PlanPayAtProperty, cost)
	assert.NoError(t, err)
	assert.True(t, cost.Equal(amount))
	assert.Equal(t, model.PaymentNotSpecified, typ)
	assert.Equal(t, model.ReasonPayAtProperty, reason)

	_, _, _, err = planPayment("CRYPTO", cost)
	assert.ErrorIs(t, err, ErrInvalidPaymentPlan)
	var planErr *InvalidPaymentPlanError
	assert.ErrorAs(t, err, &planErr)
	assert.Equal(t, "CRYPTO", planErr.Plan)
}
