package repository

import (
	"context"
	"database/sql"
	"fmt"

	"RetailPulse/internal/domain/models"
	"RetailPulse/internal/domain/repository"
	applogger "RetailPulse/pkg/logger"
)

// ClickHouseSnapshotSource implements the snapshot query contract on top of
// the transactional ClickHouse database.
type ClickHouseSnapshotSource struct {
	db       *sql.DB
	database string
	log      *applogger.Logger
}

// NewClickHouseSnapshotSource creates a snapshot source over db. database is
// the ClickHouse database holding the order and sales tables.
func NewClickHouseSnapshotSource(db *sql.DB, database string) *ClickHouseSnapshotSource {
	return &ClickHouseSnapshotSource{db: db, database: database}
}

// SetLogger attaches a structured logger.
func (s *ClickHouseSnapshotSource) SetLogger(l *applogger.Logger) { s.log = l }

// QueryBackOrders aggregates units served and sold over this and last
// calendar month plus open order quantities per item. Items with nothing
// served and nothing on order are dropped in SQL, not instantiated.
func (s *ClickHouseSnapshotSource) QueryBackOrders(ctx context.Context, outletID int64, company string) ([]repository.BackOrderRow, error) {
	query := fmt.Sprintf(`
		SELECT
			o.item_key,
			o.units_served,
			coalesce(s.units_sold, 0) AS units_sold,
			o.units_on_order
		FROM (
			SELECT
				item_key,
				sumIf(fulfilled_quantity, fulfilled = 1) AS units_served,
				sumIf(quantity, fulfilled = 0)           AS units_on_order
			FROM %s.order_lines
			WHERE outlet_id = ?
			  AND company = ?
			  AND ordered_at >= toStartOfMonth(addMonths(today(), -1))
			GROUP BY item_key
		) AS o
		LEFT JOIN (
			SELECT item_key, sum(quantity) AS units_sold
			FROM %s.sales_lines
			WHERE outlet_id = ?
			  AND sold_at >= toStartOfMonth(addMonths(today(), -1))
			GROUP BY item_key
		) AS s USING (item_key)
		WHERE o.units_served > 0 OR o.units_on_order > 0
		ORDER BY o.item_key`, s.database, s.database)

	rows, err := s.db.QueryContext(ctx, query, outletID, company, outletID)
	if err != nil {
		return nil, fmt.Errorf("query back orders: %w", err)
	}
	defer rows.Close()

	var out []repository.BackOrderRow
	for rows.Next() {
		var row repository.BackOrderRow
		if err := rows.Scan(&row.ItemKey, &row.UnitsServed, &row.UnitsSold, &row.UnitsOnOrder); err != nil {
			return nil, fmt.Errorf("scan back order row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("back order rows: %w", err)
	}
	return out, nil
}

// QuerySalesTargetHistory returns 30-minute buckets for every item under an
// active sales commitment today, aligning today's sold quantities with the
// same weekday one week prior. Rows come back ordered by item then minute.
func (s *ClickHouseSnapshotSource) QuerySalesTargetHistory(ctx context.Context, outletID int64, company string) ([]repository.SalesTargetRow, error) {
	query := fmt.Sprintf(`
		SELECT
			t.item_key,
			t.target_pct,
			intDiv(toHour(l.sold_at) * 60 + toMinute(l.sold_at), 30) * 30 AS minute,
			sumIf(l.quantity, toDate(l.sold_at) = today())     AS amount_today,
			sumIf(l.quantity, toDate(l.sold_at) = today() - 7) AS amount_prior_week
		FROM %s.sales_targets AS t
		INNER JOIN %s.sales_lines AS l
			ON l.item_key = t.item_key AND l.outlet_id = t.outlet_id
		WHERE t.outlet_id = ?
		  AND today() BETWEEN t.valid_from AND t.valid_to
		  AND toDate(l.sold_at) IN (today(), today() - 7)
		GROUP BY t.item_key, t.target_pct, minute
		ORDER BY t.item_key, minute`, s.database, s.database)

	rows, err := s.db.QueryContext(ctx, query, outletID)
	if err != nil {
		return nil, fmt.Errorf("query sales target history: %w", err)
	}
	defer rows.Close()

	var out []repository.SalesTargetRow
	for rows.Next() {
		var row repository.SalesTargetRow
		if err := rows.Scan(&row.ItemKey, &row.TargetPct, &row.Bucket.Minute, &row.Bucket.AmountToday, &row.Bucket.AmountPriorWeek); err != nil {
			return nil, fmt.Errorf("scan sales target row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales target rows: %w", err)
	}
	return out, nil
}

// QueryRevenueHistory returns 30-minute revenue buckets for today and the
// same weekday last week, ordered by minute.
func (s *ClickHouseSnapshotSource) QueryRevenueHistory(ctx context.Context, outletID int64, company string) ([]models.HistoryBucket, error) {
	query := fmt.Sprintf(`
		SELECT
			intDiv(toHour(sold_at) * 60 + toMinute(sold_at), 30) * 30 AS minute,
			sumIf(amount, toDate(sold_at) = today())     AS amount_today,
			sumIf(amount, toDate(sold_at) = today() - 7) AS amount_prior_week
		FROM %s.sales_lines
		WHERE outlet_id = ?
		  AND toDate(sold_at) IN (today(), today() - 7)
		GROUP BY minute
		ORDER BY minute`, s.database)

	rows, err := s.db.QueryContext(ctx, query, outletID)
	if err != nil {
		return nil, fmt.Errorf("query revenue history: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryBucket
	for rows.Next() {
		var b models.HistoryBucket
		if err := rows.Scan(&b.Minute, &b.AmountToday, &b.AmountPriorWeek); err != nil {
			return nil, fmt.Errorf("scan revenue bucket: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("revenue rows: %w", err)
	}
	return out, nil
}

// SchemaStatements returns the idempotent bootstrap DDL for the snapshot
// tables, used by the DI provider at startup.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.order_lines (
			outlet_id Int64,
			company String,
			item_key String,
			ordered_at DateTime,
			quantity Float64,
			fulfilled_quantity Float64,
			fulfilled UInt8
		) ENGINE = MergeTree ORDER BY (outlet_id, item_key, ordered_at)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sales_lines (
			outlet_id Int64,
			company String,
			item_key String,
			sold_at DateTime,
			quantity Float64,
			amount Float64
		) ENGINE = MergeTree ORDER BY (outlet_id, item_key, sold_at)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sales_targets (
			outlet_id Int64,
			item_key String,
			target_pct Float64,
			valid_from Date,
			valid_to Date
		) ENGINE = MergeTree ORDER BY (outlet_id, item_key, valid_from)`, database),
	}
}
