package models

import "github.com/shopspring/decimal"

// CartLine is a quantity of one menu item held in the active order.
type CartLine struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

// Totals is derived from the cart on every request and never stored.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

// Receipt is what a successful checkout reports back to the customer.
type Receipt struct {
	Totals            Totals `json:"totals"`
	Address           string `json:"address"`
	EstimatedDelivery string `json:"estimated_delivery"`
}
