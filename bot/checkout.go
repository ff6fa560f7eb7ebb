package bot

import (
	"context"
	"errors"

	"woof-coffee/lang"
	"woof-coffee/metrics"
	"woof-coffee/services"

	"go.uber.org/zap"
)

// startCheckout asks for the delivery address; the next text message is
// taken as the address.
func (b *Bot) startCheckout(ctx context.Context, chatID, userID int64) {
	cart := b.getCart(ctx, userID)
	if cart.IsEmpty() {
		metrics.Checkouts.WithLabelValues(services.Outcome(services.ErrCartEmpty), metrics.ChannelTelegram).Inc()
		b.send(chatID, lang.T("cart_empty"))
		return
	}
	b.setAwaitingAddress(userID, true)
	b.send(chatID, lang.T("ask_address"))
}

func (b *Bot) handleAddress(ctx context.Context, chatID, userID int64, address string) {
	cart := b.getCart(ctx, userID)
	receipt, err := b.checkout.Submit(cart.Lines(), address)
	metrics.Checkouts.WithLabelValues(services.Outcome(err), metrics.ChannelTelegram).Inc()

	switch {
	case err == nil:
	case errors.Is(err, services.ErrAddressRequired):
		b.send(chatID, lang.T("address_required"))
		return
	case errors.Is(err, services.ErrCartEmpty):
		b.setAwaitingAddress(userID, false)
		b.send(chatID, lang.T("cart_empty"))
		return
	default:
		b.setAwaitingAddress(userID, false)
		b.log.Error("checkout", zap.Int64("customer_id", userID), zap.Error(err))
		b.send(chatID, lang.T("order_failed"))
		return
	}

	b.setAwaitingAddress(userID, false)
	if err := b.carts.Delete(ctx, userID); err != nil {
		b.log.Error("delete cart after checkout", zap.Int64("customer_id", userID), zap.Error(err))
	}
	b.log.Info("order placed",
		zap.Int64("customer_id", userID),
		zap.String("total", receipt.Totals.Total.StringFixed(2)),
		zap.Int("lines", receipt.Totals.ItemCount),
	)
	b.sendWithInline(chatID, services.ReceiptText(receipt), b.mainKeyboard(0))
}
