package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
)

// AnalyticsRepo defines the parameterized aggregate queries over trips.
// Every filter value is bound, never concatenated into SQL — region labels
// and coordinates come straight from URL path segments.
type AnalyticsRepo interface {
	// WeeklyAverageByRegion returns the mean trips-per-week count for one
	// region. Returns domain.ErrNotFound if the region has no trips.
	WeeklyAverageByRegion(ctx context.Context, region string) (float64, error)

	// WeeklyAverageByBBox returns the mean trips-per-week count for trips
	// whose origin point lies inside the box, borders included. Containment
	// is judged on the origin only; a trip with its destination inside but
	// origin outside does not count. Returns domain.ErrNotFound if no trips
	// fall inside.
	WeeklyAverageByBBox(ctx context.Context, box geo.BoundingBox) (float64, error)

	// RegionsByDatasource returns the distinct regions where the datasource
	// has appeared at least once, ordered by region.
	RegionsByDatasource(ctx context.Context, datasource string) ([]string, error)

	// LatestDatasources returns, for each of the topN regions by trip count,
	// the datasource of that region's most recent trip.
	LatestDatasources(ctx context.Context, topN int) ([]domain.RegionDatasource, error)

	// DistinctRegions returns every region label present in the store,
	// ordered ascending.
	DistinctRegions(ctx context.Context) ([]string, error)
}

// pgAnalyticsRepo is the Postgres/PostGIS implementation of AnalyticsRepo.
type pgAnalyticsRepo struct {
	db db
}

// NewAnalyticsRepo constructs an AnalyticsRepo backed by the provided db connection.
func NewAnalyticsRepo(db db) AnalyticsRepo {
	return &pgAnalyticsRepo{db: db}
}

func (r *pgAnalyticsRepo) WeeklyAverageByRegion(ctx context.Context, region string) (float64, error) {
	const q = `
		SELECT AVG(weekly_count)::float8
		FROM (
			SELECT COUNT(*) AS weekly_count
			FROM trips
			WHERE region = @region
			GROUP BY date_trunc('week', datetime)
		) weeks`

	var avg *float64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"region": region}).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("repo.AnalyticsRepo.WeeklyAverageByRegion: %w", err)
	}
	// AVG over zero groups yields SQL NULL, not zero rows.
	if avg == nil {
		return 0, fmt.Errorf("repo.AnalyticsRepo.WeeklyAverageByRegion: %w", domain.ErrNotFound)
	}
	return *avg, nil
}

func (r *pgAnalyticsRepo) WeeklyAverageByBBox(ctx context.Context, box geo.BoundingBox) (float64, error) {
	// ST_MakeEnvelope takes (xmin, ymin, xmax, ymax); BoundingBox guarantees
	// that ordering regardless of how the caller supplied the corners.
	// ST_Covers, not ST_Contains: a point on the envelope edge must count.
	const q = `
		SELECT AVG(weekly_count)::float8
		FROM (
			SELECT COUNT(*) AS weekly_count
			FROM trips
			WHERE ST_Covers(
				ST_MakeEnvelope(@min_lon, @min_lat, @max_lon, @max_lat, 4326),
				origin_coord)
			GROUP BY date_trunc('week', datetime)
		) weeks`

	args := pgx.NamedArgs{
		"min_lon": box.MinLon,
		"min_lat": box.MinLat,
		"max_lon": box.MaxLon,
		"max_lat": box.MaxLat,
	}

	var avg *float64
	err := r.db.QueryRow(ctx, q, args).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("repo.AnalyticsRepo.WeeklyAverageByBBox: %w", err)
	}
	if avg == nil {
		return 0, fmt.Errorf("repo.AnalyticsRepo.WeeklyAverageByBBox: %w", domain.ErrNotFound)
	}
	return *avg, nil
}

func (r *pgAnalyticsRepo) RegionsByDatasource(ctx context.Context, datasource string) ([]string, error) {
	const q = `
		SELECT DISTINCT region
		FROM trips
		WHERE datasource = @datasource
		ORDER BY region`
	return r.queryStrings(ctx, "RegionsByDatasource", q, pgx.NamedArgs{"datasource": datasource})
}

// LatestDatasources ranks regions by total trip count (ties broken by region
// name for determinism) and picks each region's most recent trip's datasource
// with DISTINCT ON.
func (r *pgAnalyticsRepo) LatestDatasources(ctx context.Context, topN int) ([]domain.RegionDatasource, error) {
	const q = `
		WITH top_regions AS (
			SELECT region
			FROM trips
			GROUP BY region
			ORDER BY COUNT(*) DESC, region
			LIMIT @top_n
		)
		SELECT DISTINCT ON (t.region) t.region, t.datasource
		FROM trips t
		JOIN top_regions tr ON tr.region = t.region
		ORDER BY t.region, t.datetime DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"top_n": topN})
	if err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.LatestDatasources: %w", err)
	}
	defer rows.Close()

	var result []domain.RegionDatasource
	for rows.Next() {
		var rd domain.RegionDatasource
		if err := rows.Scan(&rd.Region, &rd.LatestDatasource); err != nil {
			return nil, fmt.Errorf("repo.AnalyticsRepo.LatestDatasources: scan: %w", err)
		}
		result = append(result, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.LatestDatasources: rows: %w", err)
	}
	return result, nil
}

func (r *pgAnalyticsRepo) DistinctRegions(ctx context.Context) ([]string, error) {
	const q = `SELECT region FROM trips GROUP BY region ORDER BY region`
	return r.queryStrings(ctx, "DistinctRegions", q, nil)
}

// queryStrings runs a single-column text query and scans all rows.
func (r *pgAnalyticsRepo) queryStrings(ctx context.Context, op, q string, args pgx.NamedArgs) ([]string, error) {
	var rows pgx.Rows
	var err error
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.%s: %w", op, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("repo.AnalyticsRepo.%s: scan: %w", op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AnalyticsRepo.%s: rows: %w", op, err)
	}
	return out, nil
}
