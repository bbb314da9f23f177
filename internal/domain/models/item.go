package models

// RevenueItemKey is the fixed key of the per-outlet revenue indicator singleton.
const RevenueItemKey = "revenue-indicator"

// ItemKind selects the tracked-item variant.
type ItemKind string

const (
	ItemBackOrder   ItemKind = "back_order"
	ItemSalesTarget ItemKind = "sales_target"
	ItemRevenue     ItemKind = "revenue"
)

// HistoryBucket is one 30-minute slice aligning today's amounts with the same
// weekday one week prior. Buckets are ordered by Minute ascending and consumed
// at most once by the cursor-advance merge.
type HistoryBucket struct {
	Minute          int
	AmountToday     float64
	AmountPriorWeek float64
}

// BackOrderState holds the accumulators of a back-order tracked item.
// Balance is always derived, never stored.
type BackOrderState struct {
	UnitsServed  float64
	UnitsSold    float64
	UnitsOnOrder float64
}

// Balance is units served minus units sold minus units on open order.
func (b *BackOrderState) Balance() float64 {
	return b.UnitsServed - b.UnitsSold - b.UnitsOnOrder
}

// SalesTargetState holds the accumulators of a sales-vs-target tracked item.
type SalesTargetState struct {
	SoldToday        float64
	PriorWeekCarried float64
	TargetPct        float64
	Target           float64
	CursorMinute     int
	History          []HistoryBucket
}

// RevenueState holds the accumulators of the per-outlet revenue indicator.
type RevenueState struct {
	RevenueToday     float64
	PriorWeekCarried float64
	CursorMinute     int
	History          []HistoryBucket
}

// TrackedItem is a closed tagged union over the three indicator variants.
// Exactly one of the variant pointers matching Kind is non-nil.
type TrackedItem struct {
	Key        string
	Kind       ItemKind
	Active     bool
	LastSignal string

	BackOrder   *BackOrderState
	SalesTarget *SalesTargetState
	Revenue     *RevenueState
}

// NewBackOrderItem creates an active back-order item from snapshot accumulators.
func NewBackOrderItem(key string, served, sold, onOrder float64) *TrackedItem {
	return &TrackedItem{
		Key:    key,
		Kind:   ItemBackOrder,
		Active: true,
		BackOrder: &BackOrderState{
			UnitsServed:  served,
			UnitsSold:    sold,
			UnitsOnOrder: onOrder,
		},
	}
}

// NewSalesTargetItem creates an active sales-target item.
func NewSalesTargetItem(key string, targetPct float64) *TrackedItem {
	return &TrackedItem{
		Key:         key,
		Kind:        ItemSalesTarget,
		Active:      true,
		SalesTarget: &SalesTargetState{TargetPct: targetPct},
	}
}

// NewRevenueItem creates the per-outlet revenue indicator singleton.
func NewRevenueItem() *TrackedItem {
	return &TrackedItem{
		Key:     RevenueItemKey,
		Kind:    ItemRevenue,
		Active:  true,
		Revenue: &RevenueState{},
	}
}

// Inactive reports whether the item should be cleared and removed.
// Only back-order items go inactive; the other variants live for the
// outlet's process lifetime.
func (t *TrackedItem) Inactive() bool {
	if t.Kind != ItemBackOrder || t.BackOrder == nil {
		return false
	}
	return t.BackOrder.UnitsServed <= 0 && t.BackOrder.UnitsOnOrder <= 0
}
