package api

import (
	"errors"
	"strings"

	"woof-coffee/metrics"
	"woof-coffee/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	catalog   *services.Catalog
	checkout  *services.Checkout
	responder *services.Responder
	log       *zap.Logger
}

func NewHandler(catalog *services.Catalog, checkout *services.Checkout, responder *services.Responder, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{catalog: catalog, checkout: checkout, responder: responder, log: log.Named("api")}
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: code, Message: msg})
}

func (h *Handler) GetMenu(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"items":      h.catalog.Items(),
		"categories": h.catalog.Categories(),
		"popular":    popularIDs(h.catalog),
	})
}

func popularIDs(c *services.Catalog) []int64 {
	ids := []int64{}
	for _, it := range c.Popular() {
		ids = append(ids, it.ID)
	}
	return ids
}

func (h *Handler) GetQuickQuestions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"greeting":        h.responder.Greeting(),
		"quick_questions": h.responder.QuickQuestions(),
	})
}

// Chat answers immediately; the thinking delay is left to the web client.
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return badRequest(c, "validation_error", "Text is required")
	}

	rule := ""
	if r, ok := h.responder.Match(text); ok {
		rule = r.Name
	}
	metrics.FAQReplies.WithLabelValues(metrics.RuleLabel(rule), metrics.ChannelHTTP).Inc()

	conv := services.NewConversation(h.responder, services.NoDelay, nil)
	conv.Submit(text)
	msgs := conv.Messages()
	return c.JSON(ChatResponse{Message: msgs[len(msgs)-1], Rule: metrics.RuleLabel(rule)})
}

func (h *Handler) Quote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body")
	}
	lines := services.CartFromLines(req.Lines).Lines()
	totals, err := h.checkout.Pricing.Compute(lines, h.catalog)
	if err != nil {
		return h.computeError(c, err)
	}
	return c.JSON(newTotalsResponse(lines, totals, h.checkout.Pricing))
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body")
	}
	lines := services.CartFromLines(req.Lines).Lines()
	receipt, err := h.checkout.Submit(lines, req.Address)
	outcome := services.Outcome(err)
	metrics.Checkouts.WithLabelValues(outcome, metrics.ChannelHTTP).Inc()

	switch {
	case err == nil:
	case errors.Is(err, services.ErrCartEmpty), errors.Is(err, services.ErrAddressRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: outcome, Message: err.Error()})
	default:
		return h.computeError(c, err)
	}

	h.log.Info("order placed",
		zap.String("total", receipt.Totals.Total.StringFixed(2)),
		zap.Int("lines", receipt.Totals.ItemCount),
	)
	return c.JSON(ReceiptResponse{
		Totals:            newTotalsResponse(lines, receipt.Totals, h.checkout.Pricing),
		Address:           receipt.Address,
		EstimatedDelivery: receipt.EstimatedDelivery,
		Message:           services.ReceiptText(receipt),
	})
}

func (h *Handler) computeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUnknownItem) {
		h.log.Warn("unknown item in request", zap.Error(err))
		return badRequest(c, "unknown_item", err.Error())
	}
	h.log.Error("compute totals", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal_error", Message: "Failed to price order"})
}
