// Package metrics declares the shop's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	FAQReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "woofcoffee",
		Name:      "faq_replies_total",
		Help:      "Barista replies by matched rule (\"default\" when nothing matched).",
	}, []string{"rule", "channel"})

	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "woofcoffee",
		Name:      "checkouts_total",
		Help:      "Checkout submissions by result.",
	}, []string{"result", "channel"})

	CartUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "woofcoffee",
		Name:      "cart_updates_total",
		Help:      "Cart mutations by operation.",
	}, []string{"op"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "woofcoffee",
		Name:      "http_requests_total",
		Help:      "API requests by route and status code.",
	}, []string{"route", "status"})
)

const (
	ChannelTelegram = "telegram"
	ChannelHTTP     = "http"
)

// RuleLabel maps an unmatched reply to the "default" label.
func RuleLabel(rule string) string {
	if rule == "" {
		return "default"
	}
	return rule
}
