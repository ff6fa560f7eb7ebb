package services

import "errors"

var (
	// ErrUnknownItem means a cart line points at an id missing from the catalog.
	// It is a programming error, not something the customer can fix.
	ErrUnknownItem = errors.New("unknown menu item")

	ErrCartEmpty       = errors.New("cart is empty")
	ErrAddressRequired = errors.New("address required")

	ErrInvalidRules   = errors.New("invalid faq rules")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
