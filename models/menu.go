package models

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"` // "Espresso", "Pour Over", "Cold Brew"
	Price       decimal.Decimal `json:"price"`
	IsPopular   bool            `json:"is_popular,omitempty"`
}

const (
	CategoryEspresso = "Espresso"
	CategoryPourOver = "Pour Over"
	CategoryColdBrew = "Cold Brew"
)
