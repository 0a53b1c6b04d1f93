package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// SQLiteStore reads CRM history from a relational SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS suppliers (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1,
		rating_points REAL NOT NULL DEFAULT 0,
		rated_deals INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS supplier_prices (
		supplier_id INTEGER NOT NULL,
		size_quantity_id INTEGER NOT NULL,
		unit_price REAL NOT NULL,
		delivery_days INTEGER,
		quality_rating REAL,
		PRIMARY KEY (supplier_id, size_quantity_id),
		FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_prices_size_quantity ON supplier_prices(size_quantity_id);

	CREATE TABLE IF NOT EXISTS supplier_jobs (
		id INTEGER PRIMARY KEY,
		supplier_id INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		promised_delivery_days INTEGER,
		ready_at INTEGER,
		courier_confirmed_ready INTEGER,
		rating INTEGER,
		status TEXT NOT NULL,
		FOREIGN KEY (supplier_id) REFERENCES suppliers(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_supplier ON supplier_jobs(supplier_id, created_at);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertSupplier(ctx context.Context, sup model.Supplier) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, active, rating_points, rated_deals)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			active = excluded.active,
			rating_points = excluded.rating_points,
			rated_deals = excluded.rated_deals`,
		sup.ID, sup.Name, sup.Active, sup.RatingPoints, sup.RatedDeals)
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertOffer(ctx context.Context, o model.SupplierPriceOffer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_prices (supplier_id, size_quantity_id, unit_price, delivery_days, quality_rating)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(supplier_id, size_quantity_id) DO UPDATE SET
			unit_price = excluded.unit_price,
			delivery_days = excluded.delivery_days,
			quality_rating = excluded.quality_rating`,
		o.SupplierID, o.SizeQuantityID, o.UnitPrice, o.DeliveryDays, o.QualityRating)
	if err != nil {
		return fmt.Errorf("upsert offer: %w", err)
	}
	return nil
}

func (s *SQLiteStore) PutJob(ctx context.Context, j model.SupplierJobRecord) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var readyAt *int64
	if j.ReadyAt != nil {
		v := j.ReadyAt.Unix()
		readyAt = &v
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO supplier_jobs
			(id, supplier_id, created_at, promised_delivery_days, ready_at, courier_confirmed_ready, rating, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.SupplierID, j.CreatedAt.Unix(), j.PromisedDeliveryDays, readyAt,
		j.CourierConfirmedReady, j.Rating, string(j.Status))
	if err != nil {
		return fmt.Errorf("put job: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CandidateOffers(ctx context.Context, sizeQuantityID int64) ([]model.SupplierPriceOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.supplier_id, p.size_quantity_id, p.unit_price, p.delivery_days, p.quality_rating,
			s.rating_points, s.rated_deals
		FROM supplier_prices p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.size_quantity_id = ? AND s.active = 1
		ORDER BY p.supplier_id`, sizeQuantityID)
	if err != nil {
		return nil, fmt.Errorf("query offers: %w", err)
	}
	defer rows.Close()

	out := []model.SupplierPriceOffer{}
	for rows.Next() {
		var (
			o          model.SupplierPriceOffer
			delivery   sql.NullInt64
			quality    sql.NullFloat64
			points     float64
			ratedDeals int
		)
		if err := rows.Scan(&o.SupplierID, &o.SizeQuantityID, &o.UnitPrice, &delivery, &quality, &points, &ratedDeals); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		if delivery.Valid {
			d := int(delivery.Int64)
			o.DeliveryDays = &d
		}
		if quality.Valid {
			q := quality.Float64
			o.QualityRating = &q
		}
		o.HistoricalAvgRating = model.AverageRating(points, ratedDeals)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := model.ValidateOffers(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) JobHistory(ctx context.Context, supplierID int64) ([]model.SupplierJobRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_id, created_at, promised_delivery_days, ready_at, courier_confirmed_ready, rating, status
		FROM supplier_jobs
		WHERE supplier_id = ?
		ORDER BY created_at, id`, supplierID)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	out := []model.SupplierJobRecord{}
	for rows.Next() {
		var (
			j         model.SupplierJobRecord
			createdAt int64
			promised  sql.NullInt64
			readyAt   sql.NullInt64
			courier   sql.NullBool
			rating    sql.NullInt64
			status    string
		)
		if err := rows.Scan(&j.ID, &j.SupplierID, &createdAt, &promised, &readyAt, &courier, &rating, &status); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		j.CreatedAt = time.Unix(createdAt, 0).UTC()
		j.Status = model.JobStatus(status)
		if promised.Valid {
			v := int(promised.Int64)
			j.PromisedDeliveryDays = &v
		}
		if readyAt.Valid {
			v := time.Unix(readyAt.Int64, 0).UTC()
			j.ReadyAt = &v
		}
		if courier.Valid {
			v := courier.Bool
			j.CourierConfirmedReady = &v
		}
		if rating.Valid {
			v := int(rating.Int64)
			j.Rating = &v
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := model.ValidateJobs(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) MarketAndSupplierAvgPrice(ctx context.Context, supplierID int64) (model.MarketPriceStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	own, err := s.prices(ctx, `SELECT unit_price FROM supplier_prices WHERE supplier_id = ?`, supplierID)
	if err != nil {
		return model.MarketPriceStats{}, err
	}
	market, err := s.prices(ctx, `
		SELECT p.unit_price
		FROM supplier_prices p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE s.active = 1 AND p.size_quantity_id IN (
			SELECT size_quantity_id FROM supplier_prices WHERE supplier_id = ?
		)`, supplierID)
	if err != nil {
		return model.MarketPriceStats{}, err
	}
	return marketStats(own, market)
}

func (s *SQLiteStore) prices(ctx context.Context, query string, args ...any) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
