// Package lang holds the customer-facing bot texts.
package lang

import "fmt"

var texts = map[string]string{
	"welcome":          "☕ Welcome to WOOF COFFEE, Seattle's virtual coffee shop. Open 24/7, delivered in 20-30 minutes.",
	"main_menu":        "What would you like to do?",
	"btn_menu":         "📋 Menu",
	"btn_cart":         "🛒 Cart (%d)",
	"btn_ask":          "💬 Ask the barista",
	"btn_checkout":     "✅ Place order",
	"btn_clear":        "🗑 Clear cart",
	"btn_back_menu":    "⬅️ Back to menu",
	"menu_header":      "📋 *Our menu*\n",
	"popular_tag":      " ⭐ Popular",
	"item_added":       "Added %s to your cart",
	"item_unavailable": "This item is no longer available.",
	"cart_header":      "🛒 *Your order* (%d items)\n",
	"cart_empty":       "Your cart is empty! Add some coffee to get started.",
	"cart_cleared":     "Your cart is now empty.",
	"ask_address":      "📍 Please enter your delivery address (Seattle).",
	"address_required": "Please enter your delivery address.",
	"order_failed":     "Sorry, something went wrong with your order. Please try again.",
	"checkout_cancel":  "Checkout cancelled. Your cart is still saved.",
	"quick_header":     "Quick questions:",
	"help":             "/menu - browse coffee\n/cart - view your order\n/ask - quick questions for the barista\n/cancel - stop entering an address\n\nOr just type a question!",
	"store_error":      "Sorry, we couldn't update your cart. Please try again.",
}

// T returns the text for key, formatted with args when given.
// Unknown keys are returned as-is.
func T(key string, args ...interface{}) string {
	s, ok := texts[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}
