// Package repo contains all database access logic for the trip analytics API.
// No business logic lives here — only SQL and type mapping. Coordinates enter
// the database through ST_GeomFromText and leave it through ST_AsText; the
// stored geometry form never crosses this package's boundary.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// List operations return plain (possibly empty) slices; the empty-result-as-
// 404 policy of the external API lives in the service layer.
type TripRepo interface {
	// Create inserts a single trip and returns the persisted record with its
	// store-assigned id. The write commits before return.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// CreateMany applies Create to each trip in input order. Each row commits
	// individually, so partial success is possible: if one row is rejected,
	// prior rows stay committed and the error names how far the batch got.
	CreateMany(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error)

	// BulkImport persists all trips in one transaction using a batched
	// pipeline, trading per-row ids for throughput. Returns the row count.
	BulkImport(ctx context.Context, trips []domain.Trip) (int64, error)

	// List returns every trip ordered by id.
	List(ctx context.Context) ([]domain.Trip, error)

	// GetByID retrieves a single trip by primary key.
	// Returns domain.ErrNotFound if no trip with that id exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// ListByRegion returns all trips with the given region label.
	ListByRegion(ctx context.Context, region string) ([]domain.Trip, error)

	// ListByDatasource returns all trips with the given datasource label.
	ListByDatasource(ctx context.Context, datasource string) ([]domain.Trip, error)

	// ListByDate returns all trips whose datetime truncates to the given
	// calendar day.
	ListByDate(ctx context.Context, day time.Time) ([]domain.Trip, error)

	// ListByDatetime returns all trips with exactly the given timestamp.
	ListByDatetime(ctx context.Context, ts time.Time) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres/PostGIS implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// tripColumns is the SELECT list shared by every read query. ST_AsText
// converts the stored geometry back to WKT so scanning stays string-based.
const tripColumns = `id, region, ST_AsText(origin_coord), ST_AsText(destination_coord), datetime, datasource`

const insertTripSQL = `
	INSERT INTO trips (region, origin_coord, destination_coord, datetime, datasource)
	VALUES (@region,
	        ST_GeomFromText(@origin_coord, 4326),
	        ST_GeomFromText(@destination_coord, 4326),
	        @datetime,
	        @datasource)
	RETURNING ` + tripColumns

// insertArgs binds a trip's fields for insertTripSQL. Coordinates are bound
// as WKT text and converted inside the statement — never interpolated.
func insertArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"region":            trip.Region,
		"origin_coord":      trip.OriginCoord.WKT(),
		"destination_coord": trip.DestinationCoord.WKT(),
		"datetime":          trip.Datetime,
		"datasource":        trip.Datasource,
	}
}

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	row := r.db.QueryRow(ctx, insertTripSQL, insertArgs(trip))
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// CreateMany inserts each trip with its own committed statement so the
// store-assigned ids can be returned in one call. This is deliberately not
// wrapped in a transaction: partial success is part of the contract.
func (r *pgTripRepo) CreateMany(ctx context.Context, trips []domain.Trip) ([]domain.Trip, error) {
	created := make([]domain.Trip, 0, len(trips))
	for i, trip := range trips {
		result, err := r.Create(ctx, trip)
		if err != nil {
			return created, fmt.Errorf("repo.TripRepo.CreateMany: trip %d of %d: %w", i+1, len(trips), err)
		}
		created = append(created, result)
	}
	return created, nil
}

// BulkImport writes all rows inside one transaction via a pgx batch pipeline.
// Generated ids are not read back — re-fetching them for a large import is
// not worth the cost — so only the row count is returned.
func (r *pgTripRepo) BulkImport(ctx context.Context, trips []domain.Trip) (int64, error) {
	if len(trips) == 0 {
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.BulkImport: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO trips (region, origin_coord, destination_coord, datetime, datasource)
		VALUES (@region,
		        ST_GeomFromText(@origin_coord, 4326),
		        ST_GeomFromText(@destination_coord, 4326),
		        @datetime,
		        @datasource)`

	batch := &pgx.Batch{}
	for _, trip := range trips {
		batch.Queue(q, insertArgs(trip))
	}

	results := tx.SendBatch(ctx, batch)
	var count int64
	for range trips {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("repo.TripRepo.BulkImport: %w", err)
		}
		count += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.BulkImport: close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.BulkImport: commit: %w", err)
	}
	return count, nil
}

func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips ORDER BY id`
	return r.queryTrips(ctx, "List", q, nil)
}

func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListByRegion(ctx context.Context, region string) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE region = @region ORDER BY id`
	return r.queryTrips(ctx, "ListByRegion", q, pgx.NamedArgs{"region": region})
}

func (r *pgTripRepo) ListByDatasource(ctx context.Context, datasource string) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE datasource = @datasource ORDER BY id`
	return r.queryTrips(ctx, "ListByDatasource", q, pgx.NamedArgs{"datasource": datasource})
}

func (r *pgTripRepo) ListByDate(ctx context.Context, day time.Time) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE date_trunc('day', datetime) = date_trunc('day', @day::timestamp)
		ORDER BY id`
	return r.queryTrips(ctx, "ListByDate", q, pgx.NamedArgs{"day": day})
}

func (r *pgTripRepo) ListByDatetime(ctx context.Context, ts time.Time) ([]domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE datetime = @ts ORDER BY id`
	return r.queryTrips(ctx, "ListByDatetime", q, pgx.NamedArgs{"ts": ts})
}

// queryTrips runs a multi-row trip query and scans all rows.
func (r *pgTripRepo) queryTrips(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Trip, error) {
	var rows pgx.Rows
	var err error
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.%s: scan: %w", op, err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.%s: rows: %w", op, err)
	}
	return trips, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip, parsing the
// ST_AsText coordinate columns back through the codec.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		originWKT string
		destWKT   string
	)

	err := s.Scan(&t.ID, &t.Region, &originWKT, &destWKT, &t.Datetime, &t.Datasource)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	if t.OriginCoord, err = geo.ParsePoint(originWKT); err != nil {
		return domain.Trip{}, fmt.Errorf("origin_coord: %w", err)
	}
	if t.DestinationCoord, err = geo.ParsePoint(destWKT); err != nil {
		return domain.Trip{}, fmt.Errorf("destination_coord: %w", err)
	}
	return t, nil
}
