package bot

import (
	"context"
	"strings"
	"sync"
	"testing"

	"woof-coffee/models"
	"woof-coffee/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records everything the bot sends.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns the text of every sent message or edit, in order.
func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) last() string {
	t := f.texts()
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, services.CartStore) {
	t.Helper()
	api := &fakeAPI{}
	catalog := services.DefaultCatalog()
	carts := services.NewMemoryCartStore()
	b := newBot(api, Deps{
		Catalog:   catalog,
		Carts:     carts,
		Checkout:  services.NewCheckout(catalog, services.DefaultPricing(), ""),
		Responder: services.DefaultResponder(),
		Delay:     services.NoDelay,
	})
	return b, api, carts
}

const (
	testChat int64 = 100
	testUser int64 = 200
)

func textUpdate(text string) tgbotapi.Update {
	return textUpdateIn(testChat, text)
}

func textUpdateIn(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: testUser},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: testUser},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: testChat}},
		Data:    data,
	}}
}

func TestAddToCartIncrements(t *testing.T) {
	b, _, carts := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(addData(2)))
	b.handleUpdate(ctx, callbackUpdate(addData(99)))

	cart, err := carts.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{ItemID: 1, Quantity: 2}, {ItemID: 2, Quantity: 1}}, cart.Lines())
}

func TestCartViewAndQuantityButtons(t *testing.T) {
	b, api, carts := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(addData(2)))
	b.handleUpdate(ctx, textUpdate("/cart"))

	text := api.last()
	assert.Contains(t, text, "Seattle Fog × 2 — $9.00")
	assert.Contains(t, text, "Subtotal: $14.25")
	assert.Contains(t, text, "Total: $18.67")

	b.handleUpdate(ctx, callbackUpdate(qtyData(1, 0)))
	cart, _ := carts.Get(ctx, testUser)
	assert.Equal(t, []models.CartLine{{ItemID: 2, Quantity: 1}}, cart.Lines())

	b.handleUpdate(ctx, callbackUpdate(rmData(2)))
	cart, _ = carts.Get(ctx, testUser)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "Your cart is empty! Add some coffee to get started.", api.last())
}

func TestCartViewKeyboard(t *testing.T) {
	b, _, _ := newTestBot(t)
	cart := services.NewCart()
	cart.SetQuantity(3, 2)

	_, kb, err := b.cartView(cart)
	require.NoError(t, err)
	row := kb.InlineKeyboard[0]
	require.Len(t, row, 4)
	assert.Equal(t, qtyData(3, 1), *row[0].CallbackData)
	assert.Equal(t, qtyData(3, 3), *row[2].CallbackData)
	assert.Equal(t, rmData(3), *row[3].CallbackData)
}

func TestCheckoutFlow(t *testing.T) {
	b, api, carts := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate("checkout"))
	assert.Equal(t, "Your cart is empty! Add some coffee to get started.", api.last())
	assert.False(t, b.isAwaitingAddress(testUser))

	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(addData(2)))
	b.handleUpdate(ctx, callbackUpdate("checkout"))
	assert.True(t, b.isAwaitingAddress(testUser))

	// A message with no text (e.g. a sticker) is a blank address.
	b.handleUpdate(ctx, textUpdate(""))
	assert.Equal(t, "Please enter your delivery address.", api.last())
	assert.True(t, b.isAwaitingAddress(testUser))

	b.handleUpdate(ctx, textUpdate("1912 Pike Pl, Seattle"))
	assert.Equal(t, "Order placed! Total: $18.67\nDelivery to: 1912 Pike Pl, Seattle\nEstimated delivery: 30 minutes", api.last())
	assert.False(t, b.isAwaitingAddress(testUser))

	cart, _ := carts.Get(ctx, testUser)
	assert.True(t, cart.IsEmpty(), "cart is cleared after a placed order")
}

func TestCancelCheckout(t *testing.T) {
	b, api, carts := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate(addData(4)))
	b.handleUpdate(ctx, callbackUpdate("checkout"))
	b.handleUpdate(ctx, textUpdate("/cancel"))
	assert.False(t, b.isAwaitingAddress(testUser))
	assert.Equal(t, "Checkout cancelled. Your cart is still saved.", api.last())

	cart, _ := carts.Get(ctx, testUser)
	assert.Equal(t, 1, cart.Quantity(4))
}

func TestQuestionGetsBaristaReply(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, textUpdate("Do you have dairy-free options?"))
	assert.Contains(t, api.last(), "oat milk, almond milk, coconut milk, and soy milk")

	conv := b.conversation(testChat)
	msgs := conv.Messages()
	require.Len(t, msgs, 3)
	assert.True(t, msgs[1].IsFromUser)

	var typing bool
	for _, r := range api.requests {
		if a, ok := r.(tgbotapi.ChatActionConfig); ok && a.Action == tgbotapi.ChatTyping {
			typing = true
		}
	}
	assert.True(t, typing, "typing action sent before the reply")
}

func TestQuickQuestionCallback(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate("ask"))
	assert.True(t, strings.HasSuffix(api.last(), "Quick questions:"))

	b.handleUpdate(ctx, callbackUpdate(faqData(0)))
	texts := api.texts()
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Equal(t, "❓ What's your most popular drink?", texts[len(texts)-2])
	assert.Contains(t, texts[len(texts)-1], "Seattle Fog ($4.50)")

	n := len(api.texts())
	b.handleUpdate(ctx, callbackUpdate(faqData(99)))
	assert.Len(t, api.texts(), n, "out-of-range question is ignored")
}

func TestMenuText(t *testing.T) {
	b, _, _ := newTestBot(t)
	text := b.menuText()
	assert.Contains(t, text, "*Espresso*")
	assert.Contains(t, text, "• Seattle Fog — $4.50 ⭐ Popular")
	assert.Contains(t, text, "• Space Needle Cold Brew — $4.00\n")

	kb := b.menuKeyboard(2)
	require.Len(t, kb.InlineKeyboard, 7)
	assert.Equal(t, addData(1), *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "🛒 Cart (2)", kb.InlineKeyboard[6][0].Text)
}

// callbackTexts returns the toast texts of answered callbacks.
func (f *fakeAPI) callbackTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb.Text)
		}
	}
	return out
}

// chatOf returns the chat id of the i-th sent message.
func (f *fakeAPI) chatOf(i int) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.sent[i].(tgbotapi.MessageConfig); ok {
		return m.ChatID
	}
	return 0
}

func TestQuantityForUnknownItemIsRejected(t *testing.T) {
	b, api, carts := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate(addData(1)))
	b.handleUpdate(ctx, callbackUpdate(qtyData(42, 3)))

	cart, err := carts.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []models.CartLine{{ItemID: 1, Quantity: 1}}, cart.Lines())
	toasts := api.callbackTexts()
	assert.Equal(t, "This item is no longer available.", toasts[len(toasts)-1])
}

func TestStaleCartItemsAreDropped(t *testing.T) {
	b, api, carts := newTestBot(t)
	ctx := context.Background()

	stored := services.CartFromLines([]models.CartLine{{ItemID: 1, Quantity: 1}, {ItemID: 42, Quantity: 3}})
	require.NoError(t, carts.Save(ctx, testUser, stored))

	b.handleUpdate(ctx, textUpdate("/cart"))
	assert.Contains(t, api.last(), "Total: $7.94")

	cart, _ := carts.Get(ctx, testUser)
	assert.Equal(t, []models.CartLine{{ItemID: 1, Quantity: 1}}, cart.Lines())

	b.handleUpdate(ctx, callbackUpdate("checkout"))
	b.handleUpdate(ctx, textUpdate("1912 Pike Pl"))
	assert.True(t, strings.HasPrefix(api.last(), "Order placed! Total: $7.94"))
}

func TestClearCartConfirms(t *testing.T) {
	b, api, carts := newTestBot(t)
	ctx := context.Background()

	b.handleUpdate(ctx, callbackUpdate(addData(3)))
	b.handleUpdate(ctx, callbackUpdate("clear"))

	cart, _ := carts.Get(ctx, testUser)
	assert.True(t, cart.IsEmpty())
	toasts := api.callbackTexts()
	assert.Equal(t, "Your cart is now empty.", toasts[len(toasts)-1])
}

func TestRepliesGoToTheAskingChat(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()
	const groupChat int64 = 300

	b.handleUpdate(ctx, textUpdate("What time do you open?"))
	b.handleUpdate(ctx, textUpdateIn(groupChat, "Do you deliver?"))

	require.Len(t, api.texts(), 2)
	assert.Equal(t, testChat, api.chatOf(0))
	assert.Equal(t, groupChat, api.chatOf(1))
	assert.Len(t, b.conversation(testChat).Messages(), 3)
	assert.Len(t, b.conversation(groupChat).Messages(), 3)
}
