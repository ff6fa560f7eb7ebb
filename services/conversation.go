package services

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"woof-coffee/models"

	"github.com/google/uuid"
)

const (
	DefaultReplyDelayMin = time.Second
	DefaultReplyDelayMax = 2 * time.Second
)

// DelayFunc picks how long the barista "thinks" before replying.
type DelayFunc func() time.Duration

// UniformDelay draws delays uniformly from [min, max).
func UniformDelay(min, max time.Duration) DelayFunc {
	if max <= min {
		return func() time.Duration { return min }
	}
	return func() time.Duration {
		return min + time.Duration(rand.Int63n(int64(max-min)))
	}
}

// NoDelay replies immediately.
func NoDelay() time.Duration { return 0 }

// Conversation is one chat session with the barista. The log is kept in
// memory only and starts with the greeting.
//
// Replies are delivered by fire-once timers; there is no cancellation and no
// ordering between pending replies beyond timer delivery order.
type Conversation struct {
	responder *Responder
	delay     DelayFunc
	onReply   func(reply models.ChatMessage, rule string)

	mu       sync.Mutex
	messages []models.ChatMessage
	pending  int
}

// NewConversation starts a session. onReply may be nil; it runs on the timer
// goroutine after the reply has been appended.
func NewConversation(responder *Responder, delay DelayFunc, onReply func(reply models.ChatMessage, rule string)) *Conversation {
	if delay == nil {
		delay = NoDelay
	}
	c := &Conversation{responder: responder, delay: delay, onReply: onReply}
	if g := responder.Greeting(); g != "" {
		c.messages = append(c.messages, newMessage(g, false))
	}
	return c
}

func newMessage(text string, fromUser bool) models.ChatMessage {
	return models.ChatMessage{
		ID:         uuid.Must(uuid.NewV7()),
		Text:       text,
		IsFromUser: fromUser,
		Timestamp:  time.Now(),
	}
}

// Submit appends the customer's message and schedules the reply. Blank input
// is ignored and reported with ok=false.
func (c *Conversation) Submit(text string) (msg models.ChatMessage, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, false
	}
	msg = newMessage(text, true)

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.pending++
	c.mu.Unlock()

	d := c.delay()
	if d <= 0 {
		c.reply(text)
		return msg, true
	}
	time.AfterFunc(d, func() { c.reply(text) })
	return msg, true
}

func (c *Conversation) reply(text string) {
	rule := ""
	if r, ok := c.responder.Match(text); ok {
		rule = r.Name
	}
	reply := newMessage(c.responder.Respond(text), false)

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.pending--
	c.mu.Unlock()

	if c.onReply != nil {
		c.onReply(reply, rule)
	}
}

// Messages returns a copy of the log in creation order.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Pending reports whether any reply is still being "typed".
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}
