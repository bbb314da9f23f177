package models

import "encoding/json"

// Severity classifies a signal for display.
type Severity string

const (
	SeverityNeutral  Severity = "neutral"
	SeverityPositive Severity = "positive"
	SeverityNegative Severity = "negative"
)

// Signal is the emitted status payload for one tracked item. Immutable value;
// its canonical form is compared against the item's last emitted signal
// before publishing.
type Signal struct {
	OutletID int64    `json:"outlet_id"`
	ItemKey  string   `json:"item_key"`
	Text     string   `json:"text"`
	FontSize int      `json:"font_size"`
	Severity Severity `json:"severity"`
}

// Canonical returns the stable serialized form used both as the publish
// payload and for change-gating comparison. Field order follows the struct
// declaration, so the form is deterministic.
func (s Signal) Canonical() string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

// ClearingSignal is the blank signal emitted once when a back-order item
// goes inactive and is removed.
func ClearingSignal(outletID int64, itemKey string) Signal {
	return Signal{
		OutletID: outletID,
		ItemKey:  itemKey,
		Text:     "",
		FontSize: 12,
		Severity: SeverityNeutral,
	}
}
