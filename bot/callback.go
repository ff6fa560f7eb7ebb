package bot

import (
	"fmt"
	"strconv"
	"strings"
)

type actionKind int

const (
	actionMenu actionKind = iota + 1
	actionCart
	actionAdd
	actionQty
	actionRemove
	actionClear
	actionCheckout
	actionFAQ
	actionAsk
)

// action is decoded callback data. Formats:
//
//	menu | cart | clear | checkout | ask
//	add:<item id>
//	qty:<item id>:<quantity>
//	rm:<item id>
//	faq:<quick question index>
type action struct {
	kind   actionKind
	itemID int64
	qty    int
	index  int
}

func parseCallback(data string) (action, error) {
	switch data {
	case "menu":
		return action{kind: actionMenu}, nil
	case "cart":
		return action{kind: actionCart}, nil
	case "clear":
		return action{kind: actionClear}, nil
	case "checkout":
		return action{kind: actionCheckout}, nil
	case "ask":
		return action{kind: actionAsk}, nil
	}

	parts := strings.Split(data, ":")
	switch parts[0] {
	case "add", "rm":
		if len(parts) != 2 {
			return action{}, fmt.Errorf("malformed %q", data)
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return action{}, fmt.Errorf("item id: %w", err)
		}
		kind := actionAdd
		if parts[0] == "rm" {
			kind = actionRemove
		}
		return action{kind: kind, itemID: id}, nil
	case "qty":
		if len(parts) != 3 {
			return action{}, fmt.Errorf("malformed %q", data)
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return action{}, fmt.Errorf("item id: %w", err)
		}
		qty, err := strconv.Atoi(parts[2])
		if err != nil {
			return action{}, fmt.Errorf("quantity: %w", err)
		}
		if qty < 0 {
			qty = 0
		}
		return action{kind: actionQty, itemID: id, qty: qty}, nil
	case "faq":
		if len(parts) != 2 {
			return action{}, fmt.Errorf("malformed %q", data)
		}
		i, err := strconv.Atoi(parts[1])
		if err != nil {
			return action{}, fmt.Errorf("question index: %w", err)
		}
		return action{kind: actionFAQ, index: i}, nil
	}
	return action{}, fmt.Errorf("unknown callback %q", data)
}

func addData(itemID int64) string { return fmt.Sprintf("add:%d", itemID) }

func qtyData(itemID int64, qty int) string { return fmt.Sprintf("qty:%d:%d", itemID, qty) }

func rmData(itemID int64) string { return fmt.Sprintf("rm:%d", itemID) }

func faqData(i int) string { return fmt.Sprintf("faq:%d", i) }
