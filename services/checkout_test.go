package services

import (
	"errors"
	"testing"

	"woof-coffee/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSubmit(t *testing.T) {
	co := NewCheckout(DefaultCatalog(), DefaultPricing(), "")
	lines := []models.CartLine{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 1}}

	r, err := co.Submit(lines, "  1912 Pike Pl, Seattle  ")
	require.NoError(t, err)
	assert.Equal(t, "1912 Pike Pl, Seattle", r.Address)
	assert.Equal(t, DefaultDeliveryETA, r.EstimatedDelivery)
	assert.True(t, r.Totals.Total.Equal(dec("18.665")))
	assert.Equal(t, "Order placed! Total: $18.67\nDelivery to: 1912 Pike Pl, Seattle\nEstimated delivery: 30 minutes", ReceiptText(r))
}

func TestCheckoutRejections(t *testing.T) {
	co := NewCheckout(DefaultCatalog(), DefaultPricing(), "20-30 minutes")
	tests := []struct {
		name    string
		lines   []models.CartLine
		address string
		want    error
		msg     string
	}{
		{"empty cart", nil, "1912 Pike Pl", ErrCartEmpty, "cart is empty"},
		{"only zero lines", []models.CartLine{{ItemID: 1, Quantity: 0}}, "1912 Pike Pl", ErrCartEmpty, "cart is empty"},
		{"empty cart wins over blank address", nil, "", ErrCartEmpty, "cart is empty"},
		{"blank address", []models.CartLine{{ItemID: 1, Quantity: 1}}, "", ErrAddressRequired, "address required"},
		{"whitespace address", []models.CartLine{{ItemID: 1, Quantity: 1}}, " \t\n", ErrAddressRequired, "address required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := co.Submit(tt.lines, tt.address)
			assert.Nil(t, r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestCheckoutUnknownItem(t *testing.T) {
	co := NewCheckout(DefaultCatalog(), DefaultPricing(), "")
	_, err := co.Submit([]models.CartLine{{ItemID: 77, Quantity: 1}}, "Ballard")
	assert.ErrorIs(t, err, ErrUnknownItem)
	assert.Equal(t, "unknown_item", Outcome(err))
}

func TestCheckoutDoesNotMutateLines(t *testing.T) {
	co := NewCheckout(DefaultCatalog(), DefaultPricing(), "")
	lines := []models.CartLine{{ItemID: 1, Quantity: 1}}
	_, err := co.Submit(lines, "")
	require.ErrorIs(t, err, ErrAddressRequired)
	assert.Equal(t, []models.CartLine{{ItemID: 1, Quantity: 1}}, lines)

	_, err = co.Submit(lines, "Fremont")
	assert.NoError(t, err, "re-submission is allowed")
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "accepted", Outcome(nil))
	assert.Equal(t, "cart_empty", Outcome(ErrCartEmpty))
	assert.Equal(t, "address_required", Outcome(ErrAddressRequired))
	assert.Equal(t, "error", Outcome(errors.New("boom")))
}
