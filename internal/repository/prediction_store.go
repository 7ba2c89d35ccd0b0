package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"CryptoPredict/internal/domain/models"
	drepo "CryptoPredict/internal/domain/repository"
)

// ClickHousePredictionStore implements PredictionStore on ClickHouse.
// Predictions are append-only; each batch goes through one transaction so
// a failing insert leaves no partial rows behind.
type ClickHousePredictionStore struct {
	db    *sql.DB
	table string
}

// NewClickHousePredictionStore creates ClickHouse-backed prediction storage.
func NewClickHousePredictionStore(db *sql.DB, table string) drepo.PredictionStore {
	return &ClickHousePredictionStore{db: db, table: table}
}

// interval is quoted: INTERVAL is a reserved word in ClickHouse.
const insertColumns = "id, ts, asset, `interval`, current_price, market_data, reasoning, action, allocation_usd, tp_price, sl_price, exit_plan, rationale, confidence, account_balance, total_return_pct"

func (s *ClickHousePredictionStore) InsertBatch(ctx context.Context, records []*models.PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, insertColumns)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		id := r.ID
		if id == 0 {
			id = uint64(r.Timestamp.UnixNano()) + uint64(i)
		}
		if _, err := stmt.ExecContext(ctx,
			id,
			r.Timestamp,
			r.Asset,
			r.Interval,
			r.CurrentPrice,
			r.MarketData,
			r.Reasoning,
			r.Action,
			r.AllocationUSD,
			r.TPPrice,
			r.SLPrice,
			r.ExitPlan,
			r.Rationale,
			r.Confidence,
			r.AccountBalance,
			r.TotalReturnPct,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert prediction %s: %w", r.Asset, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *ClickHousePredictionStore) History(ctx context.Context, asset string, before time.Time, limit int) ([]*models.PredictionRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE asset = ? AND ts < ? ORDER BY ts DESC LIMIT ?", insertColumns, s.table)
	rows, err := s.db.QueryContext(ctx, q, asset, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []*models.PredictionRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *ClickHousePredictionStore) Latest(ctx context.Context, asset string) (*models.PredictionRecord, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE asset = ? ORDER BY ts DESC LIMIT 1", insertColumns, s.table)
	rows, err := s.db.QueryContext(ctx, q, asset)
	if err != nil {
		return nil, fmt.Errorf("query latest: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRecord(rows)
}

func (s *ClickHousePredictionStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHousePredictionStore) Close() error {
	return nil // pool is owned by pkg/clickhouse
}

func scanRecord(rows *sql.Rows) (*models.PredictionRecord, error) {
	var (
		r          models.PredictionRecord
		ts         time.Time
		price      sql.NullFloat64
		alloc      sql.NullFloat64
		tp         sql.NullFloat64
		sl         sql.NullFloat64
		exitPlan   sql.NullString
		rationale  sql.NullString
		confidence sql.NullFloat64
	)
	if err := rows.Scan(
		&r.ID,
		&ts,
		&r.Asset,
		&r.Interval,
		&price,
		&r.MarketData,
		&r.Reasoning,
		&r.Action,
		&alloc,
		&tp,
		&sl,
		&exitPlan,
		&rationale,
		&confidence,
		&r.AccountBalance,
		&r.TotalReturnPct,
	); err != nil {
		return nil, fmt.Errorf("scan prediction: %w", err)
	}
	r.Timestamp = ts
	r.CurrentPrice = nullFloat(price)
	r.AllocationUSD = nullFloat(alloc)
	r.TPPrice = nullFloat(tp)
	r.SLPrice = nullFloat(sl)
	r.ExitPlan = nullString(exitPlan)
	r.Rationale = nullString(rationale)
	r.Confidence = nullFloat(confidence)
	return &r, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
