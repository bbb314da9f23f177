package store

import (
	"sort"
	"sync"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/pkg/util"
)

// Outlet is the process-lifetime state of one retail location. All access to
// an outlet's items and refresh metadata must happen under its lock; the
// engine takes the lock once per inbound event so refresh, apply, compute and
// publish run as one serialized unit.
type Outlet struct {
	ID int64

	mu             sync.Mutex
	items          map[string]*models.TrackedItem
	lastSnapshotAt time.Time
}

// Lock acquires the outlet's exclusive-access unit.
func (o *Outlet) Lock() { o.mu.Lock() }

// Unlock releases the outlet's exclusive-access unit.
func (o *Outlet) Unlock() { o.mu.Unlock() }

// Item returns the tracked item for key, if present. Caller must hold the lock.
func (o *Outlet) Item(key string) (*models.TrackedItem, bool) {
	item, ok := o.items[key]
	return item, ok
}

// Upsert inserts or replaces a tracked item, preserving the last emitted
// signal of a replaced item so change-gating survives a snapshot overwrite.
// Caller must hold the lock.
func (o *Outlet) Upsert(item *models.TrackedItem) {
	if prev, ok := o.items[item.Key]; ok && item.LastSignal == "" {
		item.LastSignal = prev.LastSignal
	}
	o.items[item.Key] = item
}

// Remove deletes a tracked item. Caller must hold the lock.
func (o *Outlet) Remove(key string) {
	delete(o.items, key)
}

// Len returns the number of tracked items. Caller must hold the lock.
func (o *Outlet) Len() int {
	return len(o.items)
}

// ForEachItem iterates the outlet's items in key order, which is stable for
// the duration of the call. Caller must hold the lock. The callback may
// mutate the current item but must not add or remove items.
func (o *Outlet) ForEachItem(fn func(item *models.TrackedItem)) {
	keys := make([]string, 0, len(o.items))
	for k := range o.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(o.items[k])
	}
}

// SnapshotFresh reports whether the last non-forced refresh happened on the
// same calendar day as now. Caller must hold the lock.
func (o *Outlet) SnapshotFresh(now time.Time) bool {
	return !o.lastSnapshotAt.IsZero() && util.SameDay(o.lastSnapshotAt, now)
}

// MarkSnapshot records now's calendar date as the last refresh date.
// Caller must hold the lock.
func (o *Outlet) MarkSnapshot(now time.Time) {
	o.lastSnapshotAt = util.StartOfDay(now)
}

// LastSnapshotAt returns the last recorded refresh date (zero if never).
// Caller must hold the lock.
func (o *Outlet) LastSnapshotAt() time.Time {
	return o.lastSnapshotAt
}

// Store maps outlet ids to their state. Outlets are created lazily on first
// use and never destroyed. The store lock only guards the map itself, never
// an outlet's contents, so outlets do not block one another.
type Store struct {
	mu      sync.RWMutex
	outlets map[int64]*Outlet
}

// New creates an empty outlet store.
func New() *Store {
	return &Store{outlets: make(map[int64]*Outlet)}
}

// Get returns the outlet for id, creating it if absent.
func (s *Store) Get(id int64) *Outlet {
	s.mu.RLock()
	o, ok := s.outlets[id]
	s.mu.RUnlock()
	if ok {
		return o
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok = s.outlets[id]; ok {
		return o
	}
	o = &Outlet{
		ID:    id,
		items: make(map[string]*models.TrackedItem),
	}
	s.outlets[id] = o
	return o
}

// Len returns the number of known outlets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outlets)
}
