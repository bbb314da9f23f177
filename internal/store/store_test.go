package store

import (
	"sync"
	"testing"
	"time"

	"RetailPulse/internal/domain/models"
)

func TestGetCreatesOutletLazily(t *testing.T) {
	s := New()
	if s.Len() != 0 {
		t.Fatalf("new store has %d outlets", s.Len())
	}

	a := s.Get(891)
	b := s.Get(891)
	if a != b {
		t.Error("same outlet id returned different instances")
	}
	if s.Len() != 1 {
		t.Errorf("store has %d outlets, want 1", s.Len())
	}
}

func TestGetConcurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	outlets := make([]*Outlet, 32)
	for i := range outlets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outlets[i] = s.Get(7)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(outlets); i++ {
		if outlets[i] != outlets[0] {
			t.Fatal("concurrent Get returned different instances for the same id")
		}
	}
}

func TestUpsertPreservesLastSignal(t *testing.T) {
	s := New()
	o := s.Get(1)
	o.Lock()
	defer o.Unlock()

	first := models.NewBackOrderItem("x", 5, 1, 0)
	first.LastSignal = "previous"
	o.Upsert(first)

	// A snapshot overwrite replaces accumulators but keeps the change-gate
	// baseline.
	o.Upsert(models.NewBackOrderItem("x", 6, 2, 1))

	item, ok := o.Item("x")
	if !ok {
		t.Fatal("item missing after upsert")
	}
	if item.LastSignal != "previous" {
		t.Errorf("last signal = %q, want %q", item.LastSignal, "previous")
	}
	if item.BackOrder.UnitsServed != 6 {
		t.Errorf("units served = %v, want 6 (overwritten)", item.BackOrder.UnitsServed)
	}
}

func TestForEachItemStableOrder(t *testing.T) {
	s := New()
	o := s.Get(2)
	o.Lock()
	defer o.Unlock()

	for _, key := range []string{"c", "a", "b"} {
		o.Upsert(models.NewBackOrderItem(key, 1, 0, 0))
	}

	var got []string
	o.ForEachItem(func(item *models.TrackedItem) {
		got = append(got, item.Key)
	})

	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("iteration order = %v, want %v", got, want)
		}
	}
}

func TestSnapshotFreshness(t *testing.T) {
	s := New()
	o := s.Get(3)
	o.Lock()
	defer o.Unlock()

	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	if o.SnapshotFresh(now) {
		t.Error("never-refreshed outlet reported fresh")
	}

	o.MarkSnapshot(now)
	if !o.SnapshotFresh(now.Add(5 * time.Hour)) {
		t.Error("same-day snapshot reported stale")
	}
	if o.SnapshotFresh(now.AddDate(0, 0, 1)) {
		t.Error("yesterday's snapshot reported fresh")
	}
}

func TestRemove(t *testing.T) {
	s := New()
	o := s.Get(4)
	o.Lock()
	defer o.Unlock()

	o.Upsert(models.NewBackOrderItem("gone", 1, 0, 0))
	o.Remove("gone")
	if _, ok := o.Item("gone"); ok {
		t.Error("item still present after remove")
	}
	if o.Len() != 0 {
		t.Errorf("outlet has %d items, want 0", o.Len())
	}
}
