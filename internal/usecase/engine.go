package usecase

import (
	"context"
	"strconv"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/store"
	applogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/util"
)

// Engine is the incremental indicator engine. One entry point, HandleEvent,
// runs refresh, apply, compute and publish for the event's outlet under that
// outlet's lock. Different outlets proceed concurrently.
type Engine struct {
	store     *store.Store
	refresher *Refresher
	publisher repository.SignalPublisher
	log       *applogger.Logger
	metrics   repository.Metrics
	now       func() time.Time
}

// NewEngine creates the indicator engine.
func NewEngine(
	st *store.Store,
	refresher *Refresher,
	publisher repository.SignalPublisher,
	log *applogger.Logger,
	metrics repository.Metrics,
) *Engine {
	return &Engine{
		store:     st,
		refresher: refresher,
		publisher: publisher,
		log:       log,
		metrics:   metrics,
		now:       time.Now,
	}
}

// HandleEvent incorporates one inbound event and publishes any signal whose
// computed form changed. Snapshot failures surface to the caller untouched;
// retry policy belongs to the transport layer.
func (e *Engine) HandleEvent(ctx context.Context, ev models.Event) error {
	ev.Normalize()

	outlet := e.store.Get(ev.OutletID)
	outlet.Lock()
	defer outlet.Unlock()

	switch ev.Kind {
	case models.KindRegisterOpen:
		// Forced refresh pinned to the declared start time. An open before
		// the midnight boundary must not mark the next day as done.
		start := e.now()
		if ev.StartTime != nil {
			start = *ev.StartTime
		}
		if err := e.refresher.Refresh(ctx, outlet, ev.Company, &start); err != nil {
			return err
		}
		e.publishPass(outlet, 0)
		return nil

	case models.KindOrder:
		// Orders need a guaranteed-fresh on-order comparison.
		start := e.now()
		if err := e.refresher.Refresh(ctx, outlet, ev.Company, &start); err != nil {
			return err
		}

	default:
		if err := e.refresher.Refresh(ctx, outlet, ev.Company, nil); err != nil {
			return err
		}
	}

	ticketTotal := e.applyLines(outlet, ev.Kind, ev.Lines)
	e.publishPass(outlet, ticketTotal)

	if e.metrics != nil {
		e.metrics.RecordTrackedItems(strconv.FormatInt(outlet.ID, 10), outlet.Len())
	}
	return nil
}

// applyLines folds the event's lines into the matching items' accumulators
// and returns the ticket total. Lines referencing unknown item keys are
// ignored; events never create items.
func (e *Engine) applyLines(outlet *store.Outlet, kind models.EventKind, lines []models.EventLine) float64 {
	var ticketTotal float64

	for _, line := range lines {
		if kind == models.KindSale {
			ticketTotal += line.Amount
		}

		item, ok := outlet.Item(line.ItemKey)
		if !ok {
			continue
		}

		switch kind {
		case models.KindSale:
			switch item.Kind {
			case models.ItemBackOrder:
				item.BackOrder.UnitsSold += line.Quantity
			case models.ItemSalesTarget:
				item.SalesTarget.SoldToday += line.Quantity
			}

		case models.KindOrder:
			if item.Kind != models.ItemBackOrder {
				continue
			}
			// A first-seen positive order line may already be counted in the
			// on-order total the snapshot just pulled; set instead of add so
			// it is never double-counted. Reductions always apply.
			if line.Quantity > 0 {
				if item.BackOrder.UnitsOnOrder == 0 {
					item.BackOrder.UnitsOnOrder = line.Quantity
				}
			} else {
				item.BackOrder.UnitsOnOrder += line.Quantity
			}
		}
	}

	return ticketTotal
}

// publishPass sweeps every tracked item of the outlet: clears items that went
// inactive, recomputes the rest, and forwards only signals whose canonical
// form differs from the last one emitted. Caller must hold the outlet's lock.
func (e *Engine) publishPass(outlet *store.Outlet, ticketTotal float64) {
	nowMinute := util.MinuteOfDay(e.now())

	if item, ok := outlet.Item(models.RevenueItemKey); ok && item.Revenue != nil {
		item.Revenue.RevenueToday += ticketTotal
	}

	var cleared []string
	outlet.ForEachItem(func(item *models.TrackedItem) {
		if item.Inactive() {
			e.emit(models.ClearingSignal(outlet.ID, item.Key), "cleared")
			cleared = append(cleared, item.Key)
			return
		}

		var sig models.Signal
		switch item.Kind {
		case models.ItemBackOrder:
			sig = ComputeBackOrderSignal(outlet.ID, item)
		case models.ItemSalesTarget:
			sig = ComputeSalesTargetSignal(outlet.ID, item, nowMinute)
		case models.ItemRevenue:
			sig = ComputeRevenueSignal(outlet.ID, item, nowMinute)
		default:
			return
		}

		canonical := sig.Canonical()
		if canonical == item.LastSignal {
			if e.metrics != nil {
				e.metrics.RecordSignal("suppressed")
			}
			return
		}
		item.LastSignal = canonical
		e.emit(sig, "published")
	})

	for _, key := range cleared {
		outlet.Remove(key)
	}
}

// emit forwards a signal to the outbound channel without blocking event
// processing. Publish failures are logged, never retried here.
func (e *Engine) emit(sig models.Signal, outcome string) {
	if e.metrics != nil {
		e.metrics.RecordSignal(outcome)
	}
	if e.publisher == nil {
		return
	}
	go func() {
		if err := e.publisher.Publish(context.Background(), sig); err != nil {
			e.log.Warn("signal publish failed",
				applogger.Int64("outlet", sig.OutletID),
				applogger.String("item", sig.ItemKey),
				applogger.Error(err),
			)
			if e.metrics != nil {
				e.metrics.RecordError("publish")
			}
		}
	}()
}
