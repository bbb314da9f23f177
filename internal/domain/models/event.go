package models

import "time"

// EventKind distinguishes inbound point-of-sale event types.
type EventKind string

const (
	KindSale         EventKind = "sale"
	KindOrder        EventKind = "order"
	KindRegisterOpen EventKind = "register_open"
)

// Valid reports whether the kind is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case KindSale, KindOrder, KindRegisterOpen:
		return true
	}
	return false
}

// EventLine is a single ticket line referencing an item by key.
type EventLine struct {
	ItemKey  string  `json:"item_key"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// Event is the transport-independent inbound envelope. Adapters parse their
// wire framing into this form before handing it to the engine.
type Event struct {
	OutletID  int64       `json:"outlet_id"`
	Company   string      `json:"company"`
	Kind      EventKind   `json:"kind"`
	StartTime *time.Time  `json:"start_time,omitempty"`
	Lines     []EventLine `json:"lines,omitempty"`
}

// Normalize fills in defaults: an omitted kind means a sale ticket.
func (e *Event) Normalize() {
	if e.Kind == "" {
		e.Kind = KindSale
	}
}
