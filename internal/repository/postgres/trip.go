package postgres

import (
	"context"
	"database/sql"
	"time"

	"bookride/internal/domain"
	"bookride/internal/repository"
)

// TripRecordRepository is the PostgreSQL implementation of
// repository.TripRecordRepository.
type TripRecordRepository struct {
	db *sql.DB
}

// NewTripRecordRepository creates a new TripRecordRepository.
func NewTripRecordRepository(db *sql.DB) *TripRecordRepository {
	return &TripRecordRepository{db: db}
}

var _ repository.TripRecordRepository = (*TripRecordRepository)(nil)

// EnsureSchema creates the trip_records table when it does not exist yet.
func (r *TripRecordRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS trip_records (
			id               TEXT PRIMARY KEY,
			session_id       TEXT NOT NULL,
			status           TEXT NOT NULL,
			pickup_lat       DOUBLE PRECISION NOT NULL,
			pickup_lng       DOUBLE PRECISION NOT NULL,
			dropoff_lat      DOUBLE PRECISION NOT NULL,
			dropoff_lng      DOUBLE PRECISION NOT NULL,
			route_summary    TEXT NOT NULL DEFAULT '',
			distance_miles   DOUBLE PRECISION NOT NULL DEFAULT 0,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			vehicle_category TEXT NOT NULL DEFAULT '',
			driver_name      TEXT NOT NULL DEFAULT '',
			plate_number     TEXT NOT NULL DEFAULT '',
			promo_code       TEXT NOT NULL DEFAULT '',
			original_fare    BIGINT NOT NULL DEFAULT 0,
			discount_amount  BIGINT NOT NULL DEFAULT 0,
			final_fare       BIGINT NOT NULL DEFAULT 0,
			cancel_reason    TEXT NOT NULL DEFAULT '',
			started_at       TIMESTAMPTZ,
			ended_at         TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL
		)`)
	return err
}

const insertTripRecordQuery = `
	INSERT INTO trip_records (
		id, session_id, status,
		pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		route_summary, distance_miles, duration_seconds,
		vehicle_category, driver_name, plate_number, promo_code,
		original_fare, discount_amount, final_fare,
		cancel_reason, started_at, ended_at, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

// Create inserts a new trip record.
func (r *TripRecordRepository) Create(ctx context.Context, record *domain.TripRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, insertTripRecordQuery,
		record.ID, record.SessionID, record.Status,
		record.Pickup.Lat, record.Pickup.Lng, record.Dropoff.Lat, record.Dropoff.Lng,
		record.RouteSummary, record.DistanceMiles, record.DurationSeconds,
		record.VehicleCategory, record.DriverName, record.PlateNumber, record.PromoCode,
		record.OriginalFare, record.DiscountAmount, record.FinalFare,
		record.CancelReason, nullTime(record.StartedAt), nullTime(record.EndedAt), record.CreatedAt,
	)
	return err
}

const selectTripRecordQuery = `
	SELECT id, session_id, status,
		pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		route_summary, distance_miles, duration_seconds,
		vehicle_category, driver_name, plate_number, promo_code,
		original_fare, discount_amount, final_fare,
		cancel_reason, started_at, ended_at, created_at
	FROM trip_records`

// GetByID retrieves a trip record by ID.
func (r *TripRecordRepository) GetByID(ctx context.Context, id string) (*domain.TripRecord, error) {
	row := r.db.QueryRowContext(ctx, selectTripRecordQuery+" WHERE id = $1", id)

	record, err := scanTripRecord(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetAll retrieves all trip records, newest first.
func (r *TripRecordRepository) GetAll(ctx context.Context) ([]*domain.TripRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectTripRecordQuery+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.TripRecord
	for rows.Next() {
		record, err := scanTripRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTripRecord(row rowScanner) (*domain.TripRecord, error) {
	var record domain.TripRecord
	var startedAt, endedAt sql.NullTime

	err := row.Scan(
		&record.ID, &record.SessionID, &record.Status,
		&record.Pickup.Lat, &record.Pickup.Lng, &record.Dropoff.Lat, &record.Dropoff.Lng,
		&record.RouteSummary, &record.DistanceMiles, &record.DurationSeconds,
		&record.VehicleCategory, &record.DriverName, &record.PlateNumber, &record.PromoCode,
		&record.OriginalFare, &record.DiscountAmount, &record.FinalFare,
		&record.CancelReason, &startedAt, &endedAt, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startedAt.Valid {
		record.StartedAt = startedAt.Time
	}
	if endedAt.Valid {
		record.EndedAt = endedAt.Time
	}
	return &record, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
