package usecase

import (
	"strings"
	"testing"

	"RetailPulse/internal/domain/models"
)

func TestComputeBackOrderSignalBanding(t *testing.T) {
	tests := []struct {
		name         string
		served       float64
		sold         float64
		onOrder      float64
		wantSeverity models.Severity
		wantMarkers  int
		wantSize     int
	}{
		{name: "on target", served: 10, sold: 10, onOrder: 0, wantSeverity: models.SeverityPositive, wantSize: 12},
		{name: "negative balance", served: 10, sold: 12, onOrder: 0, wantSeverity: models.SeverityNegative, wantSize: 17},
		{name: "small surplus", served: 10, sold: 7, onOrder: 0, wantSeverity: models.SeverityNeutral, wantMarkers: 3, wantSize: 12},
		{name: "surplus capped at five", served: 10, sold: 3, onOrder: 0, wantSeverity: models.SeverityNeutral, wantMarkers: 5, wantSize: 12},
		{name: "on order counts against balance", served: 10, sold: 4, onOrder: 8, wantSeverity: models.SeverityNegative, wantSize: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.NewBackOrderItem("42", tt.served, tt.sold, tt.onOrder)
			sig := ComputeBackOrderSignal(7, item)

			if sig.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", sig.Severity, tt.wantSeverity)
			}
			if sig.FontSize != tt.wantSize {
				t.Errorf("font size = %d, want %d", sig.FontSize, tt.wantSize)
			}
			if tt.wantMarkers > 0 {
				if got := strings.Count(sig.Text, markerUnit); got != tt.wantMarkers {
					t.Errorf("marker count = %d, want %d (text %q)", got, tt.wantMarkers, sig.Text)
				}
			}
			if sig.OutletID != 7 || sig.ItemKey != "42" {
				t.Errorf("signal identity = %d/%s, want 7/42", sig.OutletID, sig.ItemKey)
			}
		})
	}
}

func TestComputeBackOrderSignalTextCarriesArithmetic(t *testing.T) {
	item := models.NewBackOrderItem("ref", 10, 3, 2)
	sig := ComputeBackOrderSignal(1, item)

	if !strings.Contains(sig.Text, "5 = 10 - 3 - 2") {
		t.Errorf("text %q does not carry the balance arithmetic", sig.Text)
	}
}

func TestComputeSalesTargetSignalBanding(t *testing.T) {
	tests := []struct {
		name         string
		sold         float64
		target       float64
		wantSeverity models.Severity
		wantMarkers  int
	}{
		{name: "ahead of target", sold: 12, target: 10, wantSeverity: models.SeverityPositive},
		{name: "exactly on target", sold: 10, target: 10, wantSeverity: models.SeverityPositive},
		{name: "slightly behind", sold: 8, target: 10, wantSeverity: models.SeverityNeutral, wantMarkers: 2},
		{name: "far behind", sold: 2, target: 10, wantSeverity: models.SeverityNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.NewSalesTargetItem("77", 10)
			item.SalesTarget.SoldToday = tt.sold
			item.SalesTarget.Target = tt.target

			sig := ComputeSalesTargetSignal(3, item, 600)

			if sig.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", sig.Severity, tt.wantSeverity)
			}
			if tt.wantMarkers > 0 {
				if got := strings.Count(sig.Text, markerUnit); got != tt.wantMarkers {
					t.Errorf("marker count = %d, want %d (text %q)", got, tt.wantMarkers, sig.Text)
				}
			}
			if sig.FontSize != 20 {
				t.Errorf("font size = %d, want 20", sig.FontSize)
			}
		})
	}
}

func TestComputeRevenueSignalBanding(t *testing.T) {
	tests := []struct {
		name         string
		today        float64
		priorWeek    float64
		wantSeverity models.Severity
		wantSize     int
	}{
		{name: "far above baseline", today: 150, priorWeek: 100, wantSeverity: models.SeverityNeutral, wantSize: 17},
		{name: "matching baseline", today: 100, priorWeek: 100, wantSeverity: models.SeverityNeutral, wantSize: 17},
		{name: "below baseline", today: 80, priorWeek: 100, wantSeverity: models.SeverityNegative, wantSize: 20},
		{name: "zero baseline guarded", today: 50, priorWeek: 0, wantSeverity: models.SeverityNeutral, wantSize: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.NewRevenueItem()
			item.Revenue.RevenueToday = tt.today
			item.Revenue.PriorWeekCarried = tt.priorWeek

			sig := ComputeRevenueSignal(9, item, 600)

			if sig.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", sig.Severity, tt.wantSeverity)
			}
			if sig.FontSize != tt.wantSize {
				t.Errorf("font size = %d, want %d", sig.FontSize, tt.wantSize)
			}
		})
	}
}

func TestRevenueBandSelection(t *testing.T) {
	// The band table is ordered; each pctDiff must land on exactly one glyph.
	tests := []struct {
		pct  int
		want string
	}{
		{25, "\U0001F911"},
		{15, "\U0001F603"},
		{5, "\U0001F604"},
		{-3, "\U0001F612"},
		{-8, "\U0001F625"},
		{-12, "\U0001F633"},
		{-16, "\U0001F61F"},
		{-19, "\U0001F4A9"},
		{-21, "\U0001F620"},
		{-23, "\U0001F621"},
		{-24, "\U0001F92C"},
		{-27, markerNegative},
		{-60, markerNegative},
	}

	for _, tt := range tests {
		item := models.NewRevenueItem()
		item.Revenue.PriorWeekCarried = 100
		item.Revenue.RevenueToday = float64(100 + tt.pct)

		sig := ComputeRevenueSignal(1, item, 600)
		if !strings.HasPrefix(sig.Text, tt.want) {
			t.Errorf("pct %d: text %q, want prefix %q", tt.pct, sig.Text, tt.want)
		}
	}
}

func TestAdvanceCursorMonotonic(t *testing.T) {
	history := []models.HistoryBucket{
		{Minute: 540, AmountToday: 1, AmountPriorWeek: 10},
		{Minute: 570, AmountToday: 2, AmountPriorWeek: 20},
		{Minute: 600, AmountToday: 3, AmountPriorWeek: 30},
	}

	cursor, prior, today := advanceCursor(history, 0, 600, 0, 0)
	if cursor != 570 {
		t.Fatalf("cursor = %d, want 570 (bucket 600 has not closed)", cursor)
	}
	if prior != 30 || today != 3 {
		t.Fatalf("accumulators = %v/%v, want 30/3", prior, today)
	}

	// Re-running with the same history must not re-consume passed buckets.
	cursor2, prior2, today2 := advanceCursor(history, cursor, 600, prior, today)
	if cursor2 != cursor || prior2 != prior || today2 != today {
		t.Fatalf("repeat merge advanced state: cursor %d prior %v today %v", cursor2, prior2, today2)
	}

	// Later in the day the remaining bucket is consumed exactly once.
	cursor3, prior3, _ := advanceCursor(history, cursor2, 700, prior2, today2)
	if cursor3 != 600 || prior3 != 60 {
		t.Fatalf("cursor = %d prior = %v, want 600/60", cursor3, prior3)
	}
}

func TestSalesTargetCursorNonDecreasing(t *testing.T) {
	item := models.NewSalesTargetItem("p6", 0)
	item.SalesTarget.History = []models.HistoryBucket{
		{Minute: 480, AmountPriorWeek: 5},
		{Minute: 510, AmountPriorWeek: 7},
	}

	last := 0
	for i := 0; i < 4; i++ {
		ComputeSalesTargetSignal(1, item, 540)
		if item.SalesTarget.CursorMinute < last {
			t.Fatalf("cursor decreased: %d -> %d", last, item.SalesTarget.CursorMinute)
		}
		last = item.SalesTarget.CursorMinute
	}
	if item.SalesTarget.PriorWeekCarried != 12 {
		t.Fatalf("prior-week carried = %v, want 12 (each bucket once)", item.SalesTarget.PriorWeekCarried)
	}
}
