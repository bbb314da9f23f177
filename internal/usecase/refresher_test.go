package usecase

import (
	"context"
	"testing"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/store"
	"RetailPulse/pkg/config"
	applogger "RetailPulse/pkg/logger"
)

func newTestRefresher(t *testing.T, src repository.SnapshotSource, now time.Time, companies ...string) *Refresher {
	t.Helper()
	cfg := &config.Config{}
	cfg.Engine.BackOrderCompanies = companies
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := NewRefresher(src, cfg, log, nil)
	r.now = func() time.Time { return now }
	return r
}

func TestForcedOffCycleRefreshDoesNotMarkDone(t *testing.T) {
	noon := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	src := &fakeSnapshotSource{}
	r := newTestRefresher(t, src, noon)

	outlet := store.New().Get(1)
	outlet.Lock()
	defer outlet.Unlock()

	// A register open just before midnight of the previous day forces a
	// refresh that must not mark today as done.
	yesterday := noon.AddDate(0, 0, -1)
	if err := r.Refresh(context.Background(), outlet, "Fac_Tena", &yesterday); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if outlet.SnapshotFresh(noon) {
		t.Error("off-cycle forced refresh marked the outlet done for today")
	}

	// A same-day forced refresh does mark it.
	sameDay := noon.Add(-2 * time.Hour)
	if err := r.Refresh(context.Background(), outlet, "Fac_Tena", &sameDay); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !outlet.SnapshotFresh(noon) {
		t.Error("same-day forced refresh did not mark the outlet done")
	}
}

func TestSalesTargetRecomputeFromRows(t *testing.T) {
	noon := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) // minute 720
	src := &fakeSnapshotSource{
		targetRows: []repository.SalesTargetRow{
			{ItemKey: "k", TargetPct: 10, Bucket: models.HistoryBucket{Minute: 600, AmountToday: 4, AmountPriorWeek: 10}},
			{ItemKey: "k", TargetPct: 10, Bucket: models.HistoryBucket{Minute: 660, AmountToday: 6, AmountPriorWeek: 10}},
			// Future bucket: carries prior-week amounts for later in the day,
			// excluded from the refreshed scalars.
			{ItemKey: "k", TargetPct: 10, Bucket: models.HistoryBucket{Minute: 780, AmountToday: 0, AmountPriorWeek: 30}},
		},
	}
	r := newTestRefresher(t, src, noon)

	outlet := store.New().Get(2)
	outlet.Lock()
	defer outlet.Unlock()

	if err := r.Refresh(context.Background(), outlet, "Fac_Tena", nil); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	item, ok := outlet.Item("k")
	if !ok {
		t.Fatal("sales-target item not created")
	}
	st := item.SalesTarget
	if st.SoldToday != 10 {
		t.Errorf("sold today = %v, want 10", st.SoldToday)
	}
	if st.Target != 22 {
		// 20 prior-week units times 1.10 uplift.
		t.Errorf("target = %v, want 22", st.Target)
	}
	if st.CursorMinute != 720 {
		t.Errorf("cursor = %d, want 720 (refresh-time minute)", st.CursorMinute)
	}
	if len(st.History) != 3 {
		t.Errorf("history length = %d, want 3", len(st.History))
	}
}

func TestBackOrderSnapshotSkipsForNonTrackingCompany(t *testing.T) {
	noon := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	src := &fakeSnapshotSource{
		backOrders: []repository.BackOrderRow{{ItemKey: "x", UnitsServed: 1}},
	}
	r := newTestRefresher(t, src, noon, "fac_demo")

	outlet := store.New().Get(3)
	outlet.Lock()
	defer outlet.Unlock()

	if err := r.Refresh(context.Background(), outlet, "Fac_Tena", nil); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if bo, _, _ := src.calls(); bo != 0 {
		t.Errorf("back-order query ran %d times, want 0", bo)
	}
	if _, ok := outlet.Item("x"); ok {
		t.Error("back-order item created for non-tracking company")
	}
}

func TestBackOrderRowsDroppedWhenInactive(t *testing.T) {
	noon := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	src := &fakeSnapshotSource{
		backOrders: []repository.BackOrderRow{
			{ItemKey: "live", UnitsServed: 3, UnitsSold: 1},
			{ItemKey: "dead", UnitsServed: 0, UnitsSold: 5, UnitsOnOrder: 0},
		},
	}
	r := newTestRefresher(t, src, noon, "fac_demo")

	outlet := store.New().Get(4)
	outlet.Lock()
	defer outlet.Unlock()

	if err := r.Refresh(context.Background(), outlet, "fac_demo", nil); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, ok := outlet.Item("live"); !ok {
		t.Error("surviving row not instantiated")
	}
	if _, ok := outlet.Item("dead"); ok {
		t.Error("row with nothing served and nothing on order was instantiated")
	}
}
