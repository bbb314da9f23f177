package repository

import (
	"context"

	"RetailPulse/internal/domain/models"
)

// BackOrderRow is one aggregate row from the back-order snapshot query.
type BackOrderRow struct {
	ItemKey      string
	UnitsServed  float64
	UnitsSold    float64
	UnitsOnOrder float64
}

// SalesTargetRow is one 30-minute bucket row from the sales-target snapshot
// query. Rows arrive ordered by item key then bucket minute.
type SalesTargetRow struct {
	ItemKey   string
	TargetPct float64
	Bucket    models.HistoryBucket
}

// SnapshotSource pulls aggregate snapshots from the transactional data store.
// Any failure must be reported; the engine treats it as snapshot-unavailable
// and leaves prior state untouched.
type SnapshotSource interface {
	QueryBackOrders(ctx context.Context, outletID int64, company string) ([]BackOrderRow, error)
	QuerySalesTargetHistory(ctx context.Context, outletID int64, company string) ([]SalesTargetRow, error)
	QueryRevenueHistory(ctx context.Context, outletID int64, company string) ([]models.HistoryBucket, error)
}

// SignalPublisher forwards computed signals to the outbound channel.
// Best effort; the engine never retries a failed publish.
type SignalPublisher interface {
	Publish(ctx context.Context, sig models.Signal) error
	Close() error
}

// Metrics defines metrics recording interface.
type Metrics interface {
	RecordEvent(kind, transport string)
	RecordSignal(outcome string)
	RecordRefresh(result string)
	RecordError(kind string)
	RecordTrackedItems(outlet string, count int)
	RecordLatency(operation string, seconds float64)
}
