// Package cart maintains the order cart: an ordered set of item lines,
// unique by item id, with totals derived on every query.
package cart

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/khanape/khana-cli/internal/domain"
)

const (
	// flatDeliveryFee is charged on any non-empty cart.
	flatDeliveryFee = 40
	taxRate         = 0.05
)

// ErrLineNotFound is returned when a quantity change targets an item id
// that is not in the cart.
var ErrLineNotFound = errors.New("cart line not found")

// Line is one item-and-quantity entry of the cart.
type Line struct {
	ItemID     string `json:"item_id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	Veg        bool   `json:"veg"`
	Restaurant string `json:"restaurant,omitempty"`
	Quantity   int    `json:"quantity"`
}

// Bill holds the derived cart totals.
type Bill struct {
	ItemTotal   int `json:"item_total"`
	DeliveryFee int `json:"delivery_fee"`
	Taxes       int `json:"taxes"`
	ToPay       int `json:"to_pay"`
}

// Ledger is an ordered collection of cart lines. The zero value is an
// empty cart ready for use.
type Ledger struct {
	lines []Line
}

// NewLedger builds a ledger from existing lines, dropping any entry with
// a non-positive quantity.
func NewLedger(lines []Line) *Ledger {
	ledger := &Ledger{}
	for _, line := range lines {
		if line.Quantity > 0 {
			ledger.lines = append(ledger.lines, line)
		}
	}
	return ledger
}

// Add puts one unit of the item into the cart: an existing line has its
// quantity incremented, otherwise a new line is appended.
func (l *Ledger) Add(item domain.CatalogItem) {
	for i := range l.lines {
		if l.lines[i].ItemID == item.ID {
			l.lines[i].Quantity++
			return
		}
	}
	l.lines = append(l.lines, Line{
		ItemID:     item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Veg:        item.Veg,
		Restaurant: item.RestaurantName,
		Quantity:   1,
	})
}

// ChangeQuantity adds delta to the matching line's quantity and removes
// the line when the result drops to zero or below.
func (l *Ledger) ChangeQuantity(itemID string, delta int) error {
	for i := range l.lines {
		if l.lines[i].ItemID != itemID {
			continue
		}
		l.lines[i].Quantity += delta
		if l.lines[i].Quantity <= 0 {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
		}
		return nil
	}
	return ErrLineNotFound
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Lines returns a copy of the current cart lines in insertion order.
func (l *Ledger) Lines() []Line {
	lines := make([]Line, len(l.lines))
	copy(lines, l.lines)
	return lines
}

// Empty reports whether the cart holds no lines.
func (l *Ledger) Empty() bool {
	return len(l.lines) == 0
}

// Bill recomputes the cart totals from the current lines: item total,
// flat delivery fee on non-empty carts, 5% tax rounded half-up.
func (l *Ledger) Bill() Bill {
	itemTotal := 0
	for _, line := range l.lines {
		itemTotal += line.Price * line.Quantity
	}
	bill := Bill{ItemTotal: itemTotal}
	if itemTotal > 0 {
		bill.DeliveryFee = flatDeliveryFee
		bill.Taxes = int(math.Floor(float64(itemTotal)*taxRate + 0.5))
	}
	bill.ToPay = bill.ItemTotal + bill.DeliveryFee + bill.Taxes
	return bill
}

// EncodeLines serializes cart lines for persistence.
func EncodeLines(lines []Line) ([]byte, error) {
	return json.Marshal(lines)
}

// DecodeLines deserializes persisted cart lines. Malformed payloads decode
// to an empty cart rather than failing the caller.
func DecodeLines(payload []byte) []Line {
	if len(payload) == 0 {
		return nil
	}
	var lines []Line
	if err := json.Unmarshal(payload, &lines); err != nil {
		return nil
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	return kept
}
