package bot

import (
	"context"
	"fmt"
	"strings"

	"woof-coffee/lang"
	"woof-coffee/metrics"
	"woof-coffee/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (b *Bot) mainKeyboard(cartLen int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_menu"), "menu"),
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_cart", cartLen), "cart"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_ask"), "ask"),
		),
	)
}

func (b *Bot) menuText() string {
	var sb strings.Builder
	sb.WriteString(lang.T("menu_header"))
	for _, cat := range b.catalog.Categories() {
		fmt.Fprintf(&sb, "\n*%s*\n", cat)
		for _, it := range b.catalog.ByCategory(cat) {
			fmt.Fprintf(&sb, "• %s — %s", it.Name, services.Money(it.Price))
			if it.IsPopular {
				sb.WriteString(lang.T("popular_tag"))
			}
			fmt.Fprintf(&sb, "\n  _%s_\n", it.Description)
		}
	}
	return sb.String()
}

func (b *Bot) menuKeyboard(cartLen int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range b.catalog.Items() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %s", it.Name, services.Money(it.Price)),
				addData(it.ID),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_cart", cartLen), "cart"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// getCart falls back to an empty cart when the store fails, so browsing keeps working.
// Lines for items no longer on the menu are dropped and the cart is re-saved.
func (b *Bot) getCart(ctx context.Context, userID int64) *services.Cart {
	cart, err := b.carts.Get(ctx, userID)
	if err != nil {
		b.log.Error("load cart", zap.Int64("customer_id", userID), zap.Error(err))
		return services.NewCart()
	}
	var stale []int64
	for _, l := range cart.Lines() {
		if _, ok := b.catalog.Lookup(l.ItemID); !ok {
			stale = append(stale, l.ItemID)
			cart.Remove(l.ItemID)
		}
	}
	if len(stale) > 0 {
		b.log.Warn("dropped unavailable items from cart", zap.Int64("customer_id", userID), zap.Int64s("item_ids", stale))
		if err := b.carts.Save(ctx, userID, cart); err != nil {
			b.log.Error("save cart", zap.Int64("customer_id", userID), zap.Error(err))
		}
	}
	return cart
}

func (b *Bot) saveCart(ctx context.Context, chatID, userID int64, cart *services.Cart) bool {
	if err := b.carts.Save(ctx, userID, cart); err != nil {
		b.log.Error("save cart", zap.Int64("customer_id", userID), zap.Error(err))
		b.send(chatID, lang.T("store_error"))
		return false
	}
	return true
}

func (b *Bot) sendMenu(ctx context.Context, chatID, userID int64, editMsgID int) {
	cart := b.getCart(ctx, userID)
	b.sendMarkdown(chatID, editMsgID, b.menuText(), b.menuKeyboard(cart.Len()))
}

func (b *Bot) addToCart(ctx context.Context, callbackID string, chatID, userID, itemID int64, menuMsgID int) {
	item, ok := b.catalog.Lookup(itemID)
	if !ok {
		b.answer(callbackID, lang.T("item_unavailable"))
		return
	}
	cart := b.getCart(ctx, userID)
	cart.Add(itemID)
	if !b.saveCart(ctx, chatID, userID, cart) {
		b.answer(callbackID, "")
		return
	}
	metrics.CartUpdates.WithLabelValues("add").Inc()
	b.answer(callbackID, lang.T("item_added", item.Name))

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, menuMsgID, b.menuKeyboard(cart.Len()))
	if _, err := b.api.Send(edit); err != nil && !strings.Contains(err.Error(), "not modified") {
		b.log.Debug("refresh menu keyboard", zap.Error(err))
	}
}

// cartView renders the cart summary. Unknown items are reported as an error
// because they mean the stored cart and the catalog disagree.
func (b *Bot) cartView(cart *services.Cart) (string, tgbotapi.InlineKeyboardMarkup, error) {
	if cart.IsEmpty() {
		kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_back_menu"), "menu"),
		))
		return lang.T("cart_empty"), kb, nil
	}

	pricing := b.checkout.Pricing
	totals, err := pricing.Compute(cart.Lines(), b.catalog)
	if err != nil {
		return "", tgbotapi.InlineKeyboardMarkup{}, err
	}

	var sb strings.Builder
	sb.WriteString(lang.T("cart_header", cart.Len()))
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, l := range cart.Lines() {
		it, _ := b.catalog.Lookup(l.ItemID)
		fmt.Fprintf(&sb, "• %s × %d — %s\n", it.Name, l.Quantity,
			services.Money(it.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", qtyData(l.ItemID, l.Quantity-1)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s × %d", it.Name, l.Quantity), "cart"),
			tgbotapi.NewInlineKeyboardButtonData("➕", qtyData(l.ItemID, l.Quantity+1)),
			tgbotapi.NewInlineKeyboardButtonData("✖️", rmData(l.ItemID)),
		))
	}
	sb.WriteString("\n")
	sb.WriteString(pricing.FormatTotals(totals))

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_checkout"), "checkout"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_clear"), "clear"),
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_back_menu"), "menu"),
		),
	)
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...), nil
}

func (b *Bot) sendCart(ctx context.Context, chatID, userID int64, editMsgID int) {
	cart := b.getCart(ctx, userID)
	text, kb, err := b.cartView(cart)
	if err != nil {
		b.log.Error("render cart", zap.Int64("customer_id", userID), zap.Error(err))
		b.sendWithInline(chatID, lang.T("order_failed"), tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_clear"), "clear"),
			tgbotapi.NewInlineKeyboardButtonData(lang.T("btn_back_menu"), "menu"),
		)))
		return
	}
	b.sendMarkdown(chatID, editMsgID, text, kb)
}

func (b *Bot) updateQuantity(ctx context.Context, callbackID string, chatID, userID, itemID int64, qty int, cartMsgID int) {
	if _, ok := b.catalog.Lookup(itemID); !ok && qty > 0 {
		b.answer(callbackID, lang.T("item_unavailable"))
		return
	}
	b.answer(callbackID, "")
	cart := b.getCart(ctx, userID)
	cart.SetQuantity(itemID, qty)
	if !b.saveCart(ctx, chatID, userID, cart) {
		return
	}
	op := "set_quantity"
	if qty == 0 {
		op = "remove"
	}
	metrics.CartUpdates.WithLabelValues(op).Inc()
	b.sendCart(ctx, chatID, userID, cartMsgID)
}

func (b *Bot) clearCart(ctx context.Context, callbackID string, chatID, userID int64, cartMsgID int) {
	if err := b.carts.Delete(ctx, userID); err != nil {
		b.log.Error("delete cart", zap.Int64("customer_id", userID), zap.Error(err))
		b.answer(callbackID, "")
		b.send(chatID, lang.T("store_error"))
		return
	}
	metrics.CartUpdates.WithLabelValues("clear").Inc()
	b.answer(callbackID, lang.T("cart_cleared"))
	b.sendCart(ctx, chatID, userID, cartMsgID)
}
