// Package service contains the business logic for the trip analytics API.
// Services own the boundary mapping: wire-form inputs (WKT coordinates,
// "YYYY-MM-DD HH:MM:SS" timestamps) are parsed here, before any store call,
// so parsing failures stay localized and testable. Services also own the
// empty-result-as-404 policy: the repos return plain slices, and this layer
// converts empty results into domain.ErrNotFound to match the external API.
package service

import (
	"context"
	"fmt"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
	"github.com/nvaldez/trip-analytics/internal/repo"
)

// TripService implements ingest and lookup operations for trips.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// parseInput converts a wire-form TripInput into a domain.Trip, running both
// coordinates through the codec and the timestamp through the fixed layout.
// The returned error names the offending field.
func parseInput(in domain.TripInput) (domain.Trip, error) {
	origin, err := geo.ParsePoint(in.OriginCoord)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("origin_coord: %w", err)
	}
	dest, err := geo.ParsePoint(in.DestinationCoord)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("destination_coord: %w", err)
	}
	ts, err := domain.ParseDatetime(in.Datetime)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("datetime: %w", err)
	}
	return domain.Trip{
		Region:           in.Region,
		OriginCoord:      origin,
		DestinationCoord: dest,
		Datetime:         ts,
		Datasource:       in.Datasource,
	}, nil
}

// Create parses and persists a single trip, returning the stored record with
// its assigned id. The write is committed before return.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	trip, err := parseInput(in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// CreateMany parses all inputs, then persists them one committed row at a
// time so the assigned ids come back in input order. A parse failure rejects
// the whole request before any write; a store failure mid-batch leaves the
// prior rows committed (partial success is part of the contract).
func (s *TripService) CreateMany(ctx context.Context, in []domain.TripInput) ([]domain.Trip, error) {
	trips := make([]domain.Trip, 0, len(in))
	for i, row := range in {
		trip, err := parseInput(row)
		if err != nil {
			return nil, fmt.Errorf("service.TripService.CreateMany: trip %d: %w", i+1, err)
		}
		trips = append(trips, trip)
	}

	created, err := s.repo.CreateMany(ctx, trips)
	if err != nil {
		return created, fmt.Errorf("service.TripService.CreateMany: %w", err)
	}
	return created, nil
}

// BulkImport parses all rows and persists them in a single batched
// transaction, returning only the count. The first malformed row aborts the
// whole import with domain.ErrMalformedInput naming the row; nothing is
// written in that case.
func (s *TripService) BulkImport(ctx context.Context, in []domain.TripInput) (int64, error) {
	trips := make([]domain.Trip, 0, len(in))
	for i, row := range in {
		trip, err := parseInput(row)
		if err != nil {
			return 0, fmt.Errorf("service.TripService.BulkImport: %w: row %d: %v",
				domain.ErrMalformedInput, i+1, err)
		}
		trips = append(trips, trip)
	}

	count, err := s.repo.BulkImport(ctx, trips)
	if err != nil {
		return 0, fmt.Errorf("service.TripService.BulkImport: %w", err)
	}
	return count, nil
}

// List returns every trip. Returns domain.ErrNotFound when the store is
// empty — the external API reports an empty store as 404, not an empty list.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("service.TripService.List: no trips: %w", domain.ErrNotFound)
	}
	return trips, nil
}

// GetByID returns a single trip by id.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListByRegion returns all trips for a region; empty result is ErrNotFound.
func (s *TripService) ListByRegion(ctx context.Context, region string) ([]domain.Trip, error) {
	trips, err := s.repo.ListByRegion(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByRegion: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("service.TripService.ListByRegion: region %q: %w", region, domain.ErrNotFound)
	}
	return trips, nil
}

// ListByDatasource returns all trips for a datasource; empty result is ErrNotFound.
func (s *TripService) ListByDatasource(ctx context.Context, datasource string) ([]domain.Trip, error) {
	trips, err := s.repo.ListByDatasource(ctx, datasource)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDatasource: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("service.TripService.ListByDatasource: datasource %q: %w", datasource, domain.ErrNotFound)
	}
	return trips, nil
}

// ListByDate parses a "YYYY-MM-DD" day and returns all trips on that calendar
// day; empty result is ErrNotFound.
func (s *TripService) ListByDate(ctx context.Context, date string) ([]domain.Trip, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDate: date: %w", err)
	}
	trips, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDate: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("service.TripService.ListByDate: day %q: %w", date, domain.ErrNotFound)
	}
	return trips, nil
}

// ListByDatetime parses a full timestamp and returns all trips at exactly
// that second; empty result is ErrNotFound.
func (s *TripService) ListByDatetime(ctx context.Context, datetime string) ([]domain.Trip, error) {
	ts, err := domain.ParseDatetime(datetime)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDatetime: datetime: %w", err)
	}
	trips, err := s.repo.ListByDatetime(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDatetime: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("service.TripService.ListByDatetime: datetime %q: %w", datetime, domain.ErrNotFound)
	}
	return trips, nil
}
