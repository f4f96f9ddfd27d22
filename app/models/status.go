package models

import "strings"

// OrderStatus is the single tagged status type shared by every order view.
// The original storefront re-derived this state machine per admin screen
// with diverging vocabularies; here there is exactly one transition table.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// StockEffect is what a status transition does to product stock.
type StockEffect int

const (
	// EffectNone leaves stock untouched.
	EffectNone StockEffect = iota
	// EffectDecrement subtracts each line's quantity from its product,
	// clamped at zero. Applied at most once per order (StockReserved guard).
	EffectDecrement
	// EffectRestore adds each line's quantity back, then the order is
	// deleted. Only applies when the order had decremented stock.
	EffectRestore
)

// ParseStatus normalises user-supplied status strings ("pending", "PENDING")
// onto the canonical vocabulary. ok is false for unknown values.
func ParseStatus(s string) (OrderStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "delivered":
		return StatusDelivered, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transitions leave this status.
// Cancelled orders are deleted outright, so terminality is moot for them,
// but the table treats both the same way.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s OrderStatus) String() string { return string(s) }

// transitions is the from × to table. Absent pairs are illegal.
var transitions = map[OrderStatus]map[OrderStatus]StockEffect{
	StatusPending: {
		StatusPending:   EffectDecrement, // re-confirm; decrement skipped if already reserved
		StatusDelivered: EffectNone,
		StatusCancelled: EffectRestore,
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to OrderStatus) bool {
	_, ok := transitions[from][to]
	return ok
}

// TransitionEffect returns the stock effect of a legal from → to change.
// ok is false when the transition is illegal.
func TransitionEffect(from, to OrderStatus) (StockEffect, bool) {
	effect, ok := transitions[from][to]
	return effect, ok
}
