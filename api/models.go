package api

import (
	"woof-coffee/models"
	"woof-coffee/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type ChatRequest struct {
	Text string `json:"text"`
}

type ChatResponse struct {
	Message models.ChatMessage `json:"message"`
	Rule    string             `json:"rule"`
}

type QuoteRequest struct {
	Lines []models.CartLine `json:"lines"`
}

type CheckoutRequest struct {
	Lines   []models.CartLine `json:"lines"`
	Address string            `json:"address"`
}

// TotalsResponse carries amounts rounded to cents for display.
type TotalsResponse struct {
	Lines                 []models.CartLine `json:"lines"`
	Subtotal              string            `json:"subtotal"`
	Tax                   string            `json:"tax"`
	DeliveryFee           string            `json:"delivery_fee"`
	Total                 string            `json:"total"`
	FreeDelivery          bool              `json:"free_delivery"`
	FreeDeliveryShortfall string            `json:"free_delivery_shortfall"`
}

type ReceiptResponse struct {
	Totals            TotalsResponse `json:"totals"`
	Address           string         `json:"address"`
	EstimatedDelivery string         `json:"estimated_delivery"`
	Message           string         `json:"message"`
}

func newTotalsResponse(lines []models.CartLine, t models.Totals, p services.Pricing) TotalsResponse {
	return TotalsResponse{
		Lines:                 lines,
		Subtotal:              t.Subtotal.StringFixed(2),
		Tax:                   t.Tax.StringFixed(2),
		DeliveryFee:           t.DeliveryFee.StringFixed(2),
		Total:                 t.Total.StringFixed(2),
		FreeDelivery:          t.DeliveryFee.IsZero(),
		FreeDeliveryShortfall: p.FreeDeliveryShortfall(t).StringFixed(2),
	}
}
