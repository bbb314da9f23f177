package usecase

import (
	"context"
	"time"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	"RetailPulse/internal/store"
	"RetailPulse/pkg/config"
	applogger "RetailPulse/pkg/logger"
	"RetailPulse/pkg/util"
)

// Refresher pulls aggregate snapshots from the data source and merges them
// into outlet state. Refresh is skipped when the outlet already refreshed
// today, unless the caller forces it with an explicit start time.
type Refresher struct {
	src     repository.SnapshotSource
	cfg     *config.Config
	log     *applogger.Logger
	metrics repository.Metrics
	now     func() time.Time
}

// NewRefresher creates a snapshot refresher.
func NewRefresher(src repository.SnapshotSource, cfg *config.Config, log *applogger.Logger, metrics repository.Metrics) *Refresher {
	return &Refresher{
		src:     src,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// Refresh pulls the three snapshot kinds for the outlet and replaces its
// accumulators. Caller must hold the outlet's lock.
//
// All queries complete before any state mutates; a failure on any of them
// aborts the whole pass with ErrSnapshotUnavailable and leaves the outlet at
// its last-known-good state, eligible for retry on the next event.
func (r *Refresher) Refresh(ctx context.Context, outlet *store.Outlet, company string, explicitStart *time.Time) error {
	now := r.now()
	if explicitStart == nil && outlet.SnapshotFresh(now) {
		if r.metrics != nil {
			r.metrics.RecordRefresh("skipped")
		}
		return nil
	}

	start := time.Now()

	var backOrders []repository.BackOrderRow
	if r.cfg.TracksBackOrders(company) {
		rows, err := r.src.QueryBackOrders(ctx, outlet.ID, company)
		if err != nil {
			return r.fail(outlet, "back orders", err)
		}
		backOrders = rows
	}

	targetRows, err := r.src.QuerySalesTargetHistory(ctx, outlet.ID, company)
	if err != nil {
		return r.fail(outlet, "sales target history", err)
	}

	revenueRows, err := r.src.QueryRevenueHistory(ctx, outlet.ID, company)
	if err != nil {
		return r.fail(outlet, "revenue history", err)
	}

	nowMinute := util.MinuteOfDay(now)
	r.applyBackOrders(outlet, backOrders)
	r.applySalesTargets(outlet, targetRows, nowMinute)
	r.applyRevenue(outlet, revenueRows, nowMinute)

	// A forced off-cycle refresh does not mark the outlet done for the day.
	if explicitStart == nil || util.SameDay(*explicitStart, now) {
		outlet.MarkSnapshot(now)
	}

	if r.metrics != nil {
		if explicitStart != nil {
			r.metrics.RecordRefresh("forced")
		} else {
			r.metrics.RecordRefresh("ok")
		}
		r.metrics.RecordLatency("refresh", time.Since(start).Seconds())
	}
	r.log.Debug("snapshot refreshed",
		applogger.Int64("outlet", outlet.ID),
		applogger.Int("back_orders", len(backOrders)),
		applogger.Int("target_rows", len(targetRows)),
		applogger.Int("revenue_buckets", len(revenueRows)),
	)
	return nil
}

func (r *Refresher) fail(outlet *store.Outlet, op string, err error) error {
	if r.metrics != nil {
		r.metrics.RecordRefresh("error")
		r.metrics.RecordError("snapshot_unavailable")
	}
	r.log.Warn("snapshot refresh failed",
		applogger.Int64("outlet", outlet.ID),
		applogger.String("query", op),
		applogger.Error(err),
	)
	return models.SnapshotError(op, err)
}

// applyBackOrders upserts one back-order item per surviving aggregate row.
// This is a full snapshot: accumulators are overwritten, not merged.
func (r *Refresher) applyBackOrders(outlet *store.Outlet, rows []repository.BackOrderRow) {
	for _, row := range rows {
		if row.UnitsServed <= 0 && row.UnitsOnOrder <= 0 {
			continue
		}
		outlet.Upsert(models.NewBackOrderItem(row.ItemKey, row.UnitsServed, row.UnitsSold, row.UnitsOnOrder))
	}
}

// applySalesTargets rebuilds each committed item's history and recomputes its
// scalar accumulators from the rows currently known. Re-running with the same
// rows yields the same scalars.
func (r *Refresher) applySalesTargets(outlet *store.Outlet, rows []repository.SalesTargetRow, nowMinute int) {
	byItem := make(map[string][]repository.SalesTargetRow)
	order := make([]string, 0)
	for _, row := range rows {
		if _, ok := byItem[row.ItemKey]; !ok {
			order = append(order, row.ItemKey)
		}
		byItem[row.ItemKey] = append(byItem[row.ItemKey], row)
	}

	for _, key := range order {
		itemRows := byItem[key]
		item := models.NewSalesTargetItem(key, itemRows[0].TargetPct)
		st := item.SalesTarget

		var soldToday, priorWeek float64
		for _, row := range itemRows {
			st.History = append(st.History, row.Bucket)
			if row.Bucket.Minute < nowMinute {
				soldToday += row.Bucket.AmountToday
				priorWeek += row.Bucket.AmountPriorWeek
			}
		}
		st.SoldToday = soldToday
		st.PriorWeekCarried = priorWeek
		st.Target = priorWeek * (1 + st.TargetPct/100)
		// Buckets up to now are already folded in; the calculator-side merge
		// only consumes buckets that close after this refresh.
		st.CursorMinute = nowMinute

		outlet.Upsert(item)
	}
}

// applyRevenue rebuilds the revenue singleton's history and recomputes its
// accumulators from the queried buckets.
func (r *Refresher) applyRevenue(outlet *store.Outlet, buckets []models.HistoryBucket, nowMinute int) {
	item := models.NewRevenueItem()
	rv := item.Revenue

	var today, priorWeek float64
	for _, b := range buckets {
		rv.History = append(rv.History, b)
		if b.Minute < nowMinute {
			today += b.AmountToday
			priorWeek += b.AmountPriorWeek
		}
	}
	rv.RevenueToday = today
	rv.PriorWeekCarried = priorWeek
	rv.CursorMinute = nowMinute

	outlet.Upsert(item)
}
