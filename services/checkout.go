package services

import (
	"errors"
	"strings"

	"woof-coffee/models"
)

const DefaultDeliveryETA = "30 minutes"

// Checkout is the one-shot guard in front of order submission. It never
// mutates anything; a rejected submission can simply be retried.
type Checkout struct {
	Catalog     ItemLookup
	Pricing     Pricing
	DeliveryETA string
}

func NewCheckout(catalog ItemLookup, pricing Pricing, eta string) *Checkout {
	if eta == "" {
		eta = DefaultDeliveryETA
	}
	return &Checkout{Catalog: catalog, Pricing: pricing, DeliveryETA: eta}
}

// Submit validates the order and reports the total and address back.
// An empty cart is checked before the address.
func (c *Checkout) Submit(lines []models.CartLine, address string) (*models.Receipt, error) {
	if !hasItems(lines) {
		return nil, ErrCartEmpty
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	totals, err := c.Pricing.Compute(lines, c.Catalog)
	if err != nil {
		return nil, err
	}
	return &models.Receipt{
		Totals:            totals,
		Address:           address,
		EstimatedDelivery: c.DeliveryETA,
	}, nil
}

func hasItems(lines []models.CartLine) bool {
	for _, l := range lines {
		if l.Quantity > 0 {
			return true
		}
	}
	return false
}

// ReceiptText is the confirmation shown after a successful checkout.
func ReceiptText(r *models.Receipt) string {
	return "Order placed! Total: " + Money(r.Totals.Total) +
		"\nDelivery to: " + r.Address +
		"\nEstimated delivery: " + r.EstimatedDelivery
}

// Outcome labels a Submit result for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, ErrCartEmpty):
		return "cart_empty"
	case errors.Is(err, ErrAddressRequired):
		return "address_required"
	case errors.Is(err, ErrUnknownItem):
		return "unknown_item"
	default:
		return "error"
	}
}
