package service

import (
	"context"
	"fmt"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
	"github.com/nvaldez/trip-analytics/internal/repo"
)

// topRegionCount is how many regions the latest-datasources ranking covers:
// the two most commonly appearing regions, per the original report.
const topRegionCount = 2

// AnalyticsService implements the aggregate queries and their boundary
// mapping (WKT corner parsing for the bounding-box family).
type AnalyticsService struct {
	analytics repo.AnalyticsRepo
}

// NewAnalyticsService constructs an AnalyticsService backed by the provided repo.
func NewAnalyticsService(r repo.AnalyticsRepo) *AnalyticsService {
	return &AnalyticsService{analytics: r}
}

// WeeklyAverageByRegion returns the mean trips-per-week for one region.
// Returns domain.ErrNotFound if the region has no trips.
func (s *AnalyticsService) WeeklyAverageByRegion(ctx context.Context, region string) (float64, error) {
	avg, err := s.analytics.WeeklyAverageByRegion(ctx, region)
	if err != nil {
		return 0, fmt.Errorf("service.AnalyticsService.WeeklyAverageByRegion: %w", err)
	}
	return avg, nil
}

// WeeklyAverageByBBox parses two WKT corner points, normalizes them into a
// bounding box, and returns the box together with the mean trips-per-week of
// trips whose origin lies inside it.
func (s *AnalyticsService) WeeklyAverageByBBox(ctx context.Context, bottomLeft, topRight string) (geo.BoundingBox, float64, error) {
	bl, err := geo.ParsePoint(bottomLeft)
	if err != nil {
		return geo.BoundingBox{}, 0, fmt.Errorf("service.AnalyticsService.WeeklyAverageByBBox: bottom_left: %w", err)
	}
	tr, err := geo.ParsePoint(topRight)
	if err != nil {
		return geo.BoundingBox{}, 0, fmt.Errorf("service.AnalyticsService.WeeklyAverageByBBox: top_right: %w", err)
	}

	box := geo.NewBoundingBox(bl, tr)
	avg, err := s.analytics.WeeklyAverageByBBox(ctx, box)
	if err != nil {
		return geo.BoundingBox{}, 0, fmt.Errorf("service.AnalyticsService.WeeklyAverageByBBox: %w", err)
	}
	return box, avg, nil
}

// RegionsByDatasource returns the distinct regions where the datasource has
// appeared. Empty result is ErrNotFound.
func (s *AnalyticsService) RegionsByDatasource(ctx context.Context, datasource string) ([]string, error) {
	regions, err := s.analytics.RegionsByDatasource(ctx, datasource)
	if err != nil {
		return nil, fmt.Errorf("service.AnalyticsService.RegionsByDatasource: %w", err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("service.AnalyticsService.RegionsByDatasource: datasource %q: %w", datasource, domain.ErrNotFound)
	}
	return regions, nil
}

// LatestDatasources returns, for each of the top regions by trip volume, the
// datasource of its most recent trip. Returns ErrNotFound when the store has
// no rows at all.
func (s *AnalyticsService) LatestDatasources(ctx context.Context) ([]domain.RegionDatasource, error) {
	latest, err := s.analytics.LatestDatasources(ctx, topRegionCount)
	if err != nil {
		return nil, fmt.Errorf("service.AnalyticsService.LatestDatasources: %w", err)
	}
	if len(latest) == 0 {
		return nil, fmt.Errorf("service.AnalyticsService.LatestDatasources: no trips: %w", domain.ErrNotFound)
	}
	return latest, nil
}

// WeeklyAverageAllRegions enumerates every region and computes each region's
// weekly average with one query per region. The N+1 shape is deliberate: it
// mirrors the original plot composition, and the external result (one average
// per region, regions ordered ascending) is the contract.
func (s *AnalyticsService) WeeklyAverageAllRegions(ctx context.Context) ([]string, []float64, error) {
	regions, err := s.analytics.DistinctRegions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("service.AnalyticsService.WeeklyAverageAllRegions: %w", err)
	}
	if len(regions) == 0 {
		return nil, nil, fmt.Errorf("service.AnalyticsService.WeeklyAverageAllRegions: no regions: %w", domain.ErrNotFound)
	}

	averages := make([]float64, 0, len(regions))
	for _, region := range regions {
		avg, err := s.analytics.WeeklyAverageByRegion(ctx, region)
		if err != nil {
			return nil, nil, fmt.Errorf("service.AnalyticsService.WeeklyAverageAllRegions: region %q: %w", region, err)
		}
		averages = append(averages, avg)
	}
	return regions, averages, nil
}
