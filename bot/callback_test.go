package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		want action
	}{
		{"menu", action{kind: actionMenu}},
		{"cart", action{kind: actionCart}},
		{"clear", action{kind: actionClear}},
		{"checkout", action{kind: actionCheckout}},
		{"ask", action{kind: actionAsk}},
		{addData(3), action{kind: actionAdd, itemID: 3}},
		{rmData(4), action{kind: actionRemove, itemID: 4}},
		{qtyData(5, 2), action{kind: actionQty, itemID: 5, qty: 2}},
		{"qty:5:-1", action{kind: actionQty, itemID: 5, qty: 0}},
		{faqData(7), action{kind: actionFAQ, index: 7}},
	}
	for _, tt := range tests {
		got, err := parseCallback(tt.data)
		require.NoError(t, err, tt.data)
		assert.Equal(t, tt.want, got, tt.data)
	}
}

func TestParseCallbackErrors(t *testing.T) {
	for _, data := range []string{"", "lang:uz", "add:", "add:x", "add:1:2", "qty:1", "qty:1:x", "rm:abc", "faq:one"} {
		_, err := parseCallback(data)
		assert.Error(t, err, data)
	}
}
