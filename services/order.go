package services

import (
	"fmt"
	"strings"

	"woof-coffee/config"
	"woof-coffee/models"

	"github.com/shopspring/decimal"
)

// Pricing holds the constants of the order total calculation.
type Pricing struct {
	TaxRate               decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		TaxRate:               decimal.RequireFromString("0.10"),
		FreeDeliveryThreshold: decimal.RequireFromString("20.00"),
		DeliveryFee:           decimal.RequireFromString("2.99"),
	}
}

// PricingFromConfig applies any configured overrides on top of DefaultPricing.
func PricingFromConfig(cfg config.ShopConfig) Pricing {
	p := DefaultPricing()
	if cfg.TaxRate.Valid {
		p.TaxRate = cfg.TaxRate.Decimal
	}
	if cfg.FreeDeliveryThreshold.Valid {
		p.FreeDeliveryThreshold = cfg.FreeDeliveryThreshold.Decimal
	}
	if cfg.DeliveryFee.Valid {
		p.DeliveryFee = cfg.DeliveryFee.Decimal
	}
	return p
}

// ComputeTotals prices lines with DefaultPricing.
func ComputeTotals(lines []models.CartLine, catalog ItemLookup) (models.Totals, error) {
	return DefaultPricing().Compute(lines, catalog)
}

// Compute derives subtotal, tax, delivery fee and total. Amounts keep full
// precision; round only when presenting them (see Money).
//
// Delivery is free only when the subtotal strictly exceeds the threshold, so
// an empty cart still carries the fee.
func (p Pricing) Compute(lines []models.CartLine, catalog ItemLookup) (models.Totals, error) {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		item, ok := catalog.Lookup(l.ItemID)
		if !ok {
			return models.Totals{}, fmt.Errorf("%w: id %d", ErrUnknownItem, l.ItemID)
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count++
	}

	tax := subtotal.Mul(p.TaxRate)
	fee := p.DeliveryFee
	if subtotal.GreaterThan(p.FreeDeliveryThreshold) {
		fee = decimal.Zero
	}
	return models.Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal.Add(tax).Add(fee),
		ItemCount:   count,
	}, nil
}

// FreeDeliveryShortfall is how much more the customer must add to get free
// delivery, or zero when delivery is already free.
func (p Pricing) FreeDeliveryShortfall(t models.Totals) decimal.Decimal {
	if t.DeliveryFee.IsZero() {
		return decimal.Zero
	}
	return p.FreeDeliveryThreshold.Sub(t.Subtotal)
}

// Money formats an amount for display, rounded to cents.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatTotals renders the order summary block shown under the cart.
func (p Pricing) FormatTotals(t models.Totals) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Subtotal: %s\n", Money(t.Subtotal))
	fmt.Fprintf(&sb, "Tax (%s%%): %s\n", p.TaxRate.Shift(2).String(), Money(t.Tax))
	if t.DeliveryFee.IsZero() {
		sb.WriteString("Delivery: FREE\n")
	} else {
		fmt.Fprintf(&sb, "Delivery: %s\n", Money(t.DeliveryFee))
		if short := p.FreeDeliveryShortfall(t); short.IsPositive() {
			fmt.Fprintf(&sb, "Add %s more for free delivery!\n", Money(short))
		}
	}
	fmt.Fprintf(&sb, "Total: %s", Money(t.Total))
	return sb.String()
}
