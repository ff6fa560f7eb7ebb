package bot

import (
	"woof-coffee/lang"
	"woof-coffee/metrics"
	"woof-coffee/models"
	"woof-coffee/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// conversation returns the chat's session with the barista, starting one on
// first use. Sessions live as long as the process; nothing is persisted.
func (b *Bot) conversation(chatID int64) *services.Conversation {
	b.convsMu.Lock()
	defer b.convsMu.Unlock()
	if c, ok := b.convs[chatID]; ok {
		return c
	}
	c := services.NewConversation(b.responder, b.delay, func(reply models.ChatMessage, rule string) {
		metrics.FAQReplies.WithLabelValues(metrics.RuleLabel(rule), metrics.ChannelTelegram).Inc()
		b.log.Debug("barista reply", zap.Int64("chat_id", chatID), zap.String("rule", metrics.RuleLabel(rule)))
		b.send(chatID, reply.Text)
	})
	b.convs[chatID] = c
	return c
}

// handleQuestion shows "typing" and lets the conversation deliver the reply
// after its thinking delay.
func (b *Bot) handleQuestion(chatID int64, text string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("chat action", zap.Error(err))
	}
	b.conversation(chatID).Submit(text)
}

func (b *Bot) sendQuickQuestions(chatID int64) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, q := range b.responder.QuickQuestions() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(q, faqData(i)),
		))
	}
	text := b.responder.Greeting()
	if len(rows) == 0 {
		b.send(chatID, text)
		return
	}
	if text != "" {
		text += "\n\n"
	}
	b.sendWithInline(chatID, text+lang.T("quick_header"), tgbotapi.NewInlineKeyboardMarkup(rows...))
}
