package bot

import (
	"context"
	"strings"
	"sync"

	"woof-coffee/lang"
	"woof-coffee/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Deps are the shop components the bot serves.
type Deps struct {
	Catalog   *services.Catalog
	Carts     services.CartStore
	Checkout  *services.Checkout
	Responder *services.Responder
	Delay     services.DelayFunc
	Logger    *zap.Logger
}

type Bot struct {
	client *tgbotapi.BotAPI
	api    sender
	log    *zap.Logger

	catalog   *services.Catalog
	carts     services.CartStore
	checkout  *services.Checkout
	responder *services.Responder
	delay     services.DelayFunc

	convs   map[int64]*services.Conversation
	convsMu sync.Mutex

	awaitingAddress   map[int64]bool
	awaitingAddressMu sync.RWMutex
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	b := newBot(api, deps)
	b.client = api
	return b, nil
}

func newBot(api sender, deps Deps) *Bot {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	delay := deps.Delay
	if delay == nil {
		delay = services.UniformDelay(services.DefaultReplyDelayMin, services.DefaultReplyDelayMax)
	}
	return &Bot{
		api:             api,
		log:             log.Named("bot"),
		catalog:         deps.Catalog,
		carts:           deps.Carts,
		checkout:        deps.Checkout,
		responder:       deps.Responder,
		delay:           delay,
		convs:           make(map[int64]*services.Conversation),
		awaitingAddress: make(map[int64]bool),
	}
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Home"},
		tgbotapi.BotCommand{Command: "menu", Description: "Browse coffee"},
		tgbotapi.BotCommand{Command: "cart", Description: "Your order"},
		tgbotapi.BotCommand{Command: "ask", Description: "Ask the barista"},
		tgbotapi.BotCommand{Command: "help", Description: "Help"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start runs the long-polling update loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set bot commands", zap.Error(err))
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.client.GetUpdatesChan(u)
	b.log.Info("bot started", zap.String("username", b.client.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		b.handleStart(ctx, chatID, userID)
	case text == "/menu":
		b.sendMenu(ctx, chatID, userID, 0)
	case text == "/cart":
		b.sendCart(ctx, chatID, userID, 0)
	case text == "/ask":
		b.sendQuickQuestions(chatID)
	case text == "/help":
		b.send(chatID, lang.T("help"))
	case text == "/cancel":
		b.handleCancel(chatID, userID)
	case b.isAwaitingAddress(userID):
		b.handleAddress(ctx, chatID, userID, text)
	case text != "" && !strings.HasPrefix(text, "/"):
		b.handleQuestion(chatID, text)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	userID := cq.From.ID

	act, err := parseCallback(cq.Data)
	if err != nil {
		b.log.Warn("bad callback data", zap.String("data", cq.Data), zap.Error(err))
		b.answer(cq.ID, "")
		return
	}

	switch act.kind {
	case actionMenu:
		b.answer(cq.ID, "")
		b.sendMenu(ctx, chatID, userID, 0)
	case actionCart:
		b.answer(cq.ID, "")
		b.sendCart(ctx, chatID, userID, 0)
	case actionAdd:
		b.addToCart(ctx, cq.ID, chatID, userID, act.itemID, msgID)
	case actionQty:
		b.updateQuantity(ctx, cq.ID, chatID, userID, act.itemID, act.qty, msgID)
	case actionRemove:
		b.updateQuantity(ctx, cq.ID, chatID, userID, act.itemID, 0, msgID)
	case actionClear:
		b.clearCart(ctx, cq.ID, chatID, userID, msgID)
	case actionCheckout:
		b.answer(cq.ID, "")
		b.startCheckout(ctx, chatID, userID)
	case actionAsk:
		b.answer(cq.ID, "")
		b.sendQuickQuestions(chatID)
	case actionFAQ:
		b.answer(cq.ID, "")
		qs := b.responder.QuickQuestions()
		if act.index < 0 || act.index >= len(qs) {
			return
		}
		q := qs[act.index]
		b.send(chatID, "❓ "+q)
		b.handleQuestion(chatID, q)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID, userID int64) {
	b.setAwaitingAddress(userID, false)
	cart := b.getCart(ctx, userID)
	b.sendWithInline(chatID, lang.T("welcome")+"\n\n"+lang.T("main_menu"), b.mainKeyboard(cart.Len()))
}

func (b *Bot) handleCancel(chatID, userID int64) {
	if b.isAwaitingAddress(userID) {
		b.setAwaitingAddress(userID, false)
		b.send(chatID, lang.T("checkout_cancel"))
		return
	}
	b.send(chatID, lang.T("main_menu"))
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendMarkdown sends a new message, or edits editMsgID when it is non-zero.
func (b *Bot) sendMarkdown(chatID int64, editMsgID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if editMsgID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, editMsgID, text, kb)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(edit); err != nil {
			if strings.Contains(err.Error(), "not modified") {
				return
			}
			b.log.Warn("edit", zap.Int64("chat_id", chatID), zap.Int("message_id", editMsgID), zap.Error(err))
		} else {
			return
		}
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// answer sends a short toast for the callback (no new message).
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}
}

func (b *Bot) isAwaitingAddress(userID int64) bool {
	b.awaitingAddressMu.RLock()
	defer b.awaitingAddressMu.RUnlock()
	return b.awaitingAddress[userID]
}

func (b *Bot) setAwaitingAddress(userID int64, v bool) {
	b.awaitingAddressMu.Lock()
	defer b.awaitingAddressMu.Unlock()
	if v {
		b.awaitingAddress[userID] = true
	} else {
		delete(b.awaitingAddress, userID)
	}
}
