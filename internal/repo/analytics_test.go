package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
	"github.com/nvaldez/trip-analytics/internal/repo"
	"github.com/nvaldez/trip-analytics/testutil"
)

// newTestRepos returns a TripRepo and an AnalyticsRepo sharing one
// rolled-back transaction, so analytics tests can seed data through the
// trip repo and query it through the analytics repo.
func newTestRepos(t *testing.T) (repo.TripRepo, repo.AnalyticsRepo) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx), repo.NewAnalyticsRepo(tx)
}

// seedTrip inserts one trip with the given region, datasource, origin and
// datetime; destination is fixed since no analytics query reads it.
func seedTrip(t *testing.T, trips repo.TripRepo, region, datasource string, origin geo.Point, at time.Time) {
	t.Helper()
	_, err := trips.Create(context.Background(), domain.Trip{
		Region:           region,
		OriginCoord:      origin,
		DestinationCoord: geo.Point{Lon: 40, Lat: 40},
		Datetime:         at,
		Datasource:       datasource,
	})
	require.NoError(t, err)
}

func TestAnalyticsRepo_WeeklyAverageByRegion(t *testing.T) {
	trips, analytics := newTestRepos(t)
	origin := geo.Point{Lon: 30, Lat: 10}

	// Week of 2023-01-02 (Mon): three trips. Week of 2023-01-09: one trip.
	for _, at := range []time.Time{
		time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 4, 10, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 9, 8, 0, 0, 0, time.UTC),
	} {
		seedTrip(t, trips, "north", "survey", origin, at)
	}
	// Noise in another region must not affect the average.
	seedTrip(t, trips, "south", "survey", origin, time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC))

	avg, err := analytics.WeeklyAverageByRegion(context.Background(), "north")

	require.NoError(t, err)
	assert.InDelta(t, 2.0, avg, 1e-9, "(3 + 1) trips over 2 weeks")
}

func TestAnalyticsRepo_WeeklyAverageByRegion_NoTrips(t *testing.T) {
	_, analytics := newTestRepos(t)

	_, err := analytics.WeeklyAverageByRegion(context.Background(), "nowhere")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestAnalyticsRepo_WeeklyAverageByRegion_QuotedRegion verifies the region
// value is bound, not concatenated: a label that would break naive string
// substitution must behave like any other label.
func TestAnalyticsRepo_WeeklyAverageByRegion_QuotedRegion(t *testing.T) {
	trips, analytics := newTestRepos(t)

	hostile := `north'; DROP TABLE trips; --`
	seedTrip(t, trips, hostile, "survey", geo.Point{Lon: 1, Lat: 1},
		time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC))

	avg, err := analytics.WeeklyAverageByRegion(context.Background(), hostile)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, avg, 1e-9)

	// The table must still be there.
	_, err = trips.List(context.Background())
	require.NoError(t, err)
}

func TestAnalyticsRepo_WeeklyAverageByBBox(t *testing.T) {
	trips, analytics := newTestRepos(t)
	week1 := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	week2 := time.Date(2023, 1, 9, 8, 0, 0, 0, time.UTC)

	// Inside [0,50]x[0,50]: two trips in week 1, one in week 2.
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 10, Lat: 10}, week1)
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 20, Lat: 20}, week1)
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 30, Lat: 30}, week2)
	// Origin outside the box — excluded even though the destination (40 40)
	// is inside.
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 60, Lat: 60}, week1)

	box := geo.NewBoundingBox(geo.Point{Lon: 0, Lat: 0}, geo.Point{Lon: 50, Lat: 50})
	avg, err := analytics.WeeklyAverageByBBox(context.Background(), box)

	require.NoError(t, err)
	assert.InDelta(t, 1.5, avg, 1e-9, "(2 + 1) trips over 2 weeks")
}

// TestAnalyticsRepo_WeeklyAverageByBBox_BoundaryIncluded pins the box borders
// as part of the box: origins exactly on a corner or edge of the envelope
// count, matching geo.BoundingBox.Contains.
func TestAnalyticsRepo_WeeklyAverageByBBox_BoundaryIncluded(t *testing.T) {
	trips, analytics := newTestRepos(t)
	week1 := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)

	// One origin on a corner, one on an edge, one strictly inside.
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 0, Lat: 0}, week1)
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 25, Lat: 50}, week1)
	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 10, Lat: 10}, week1)

	box := geo.NewBoundingBox(geo.Point{Lon: 0, Lat: 0}, geo.Point{Lon: 50, Lat: 50})
	avg, err := analytics.WeeklyAverageByBBox(context.Background(), box)

	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg, 1e-9, "boundary origins count toward the single week")
}

func TestAnalyticsRepo_WeeklyAverageByBBox_NoTrips(t *testing.T) {
	trips, analytics := newTestRepos(t)

	seedTrip(t, trips, "north", "survey", geo.Point{Lon: 100, Lat: 80},
		time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC))

	box := geo.NewBoundingBox(geo.Point{Lon: 0, Lat: 0}, geo.Point{Lon: 50, Lat: 50})
	_, err := analytics.WeeklyAverageByBBox(context.Background(), box)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyticsRepo_RegionsByDatasource(t *testing.T) {
	trips, analytics := newTestRepos(t)
	at := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	origin := geo.Point{Lon: 1, Lat: 1}

	seedTrip(t, trips, "north", "cheap_mobile", origin, at)
	seedTrip(t, trips, "south", "cheap_mobile", origin, at)
	seedTrip(t, trips, "north", "cheap_mobile", origin, at.Add(time.Hour))
	seedTrip(t, trips, "east", "survey", origin, at)

	regions, err := analytics.RegionsByDatasource(context.Background(), "cheap_mobile")

	require.NoError(t, err)
	assert.Equal(t, []string{"north", "south"}, regions, "distinct, ordered, survey-only regions excluded")
}

func TestAnalyticsRepo_RegionsByDatasource_NoRows(t *testing.T) {
	_, analytics := newTestRepos(t)

	regions, err := analytics.RegionsByDatasource(context.Background(), "cheap_mobile")

	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestAnalyticsRepo_LatestDatasources(t *testing.T) {
	trips, analytics := newTestRepos(t)
	origin := geo.Point{Lon: 1, Lat: 1}

	// north: 3 trips, latest is "funnel". south: 2 trips, latest is "survey".
	// east: 1 trip — outside the top two.
	seedTrip(t, trips, "north", "survey", origin, time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC))
	seedTrip(t, trips, "north", "cheap_mobile", origin, time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC))
	seedTrip(t, trips, "north", "funnel", origin, time.Date(2023, 1, 3, 8, 0, 0, 0, time.UTC))
	seedTrip(t, trips, "south", "cheap_mobile", origin, time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC))
	seedTrip(t, trips, "south", "survey", origin, time.Date(2023, 1, 5, 8, 0, 0, 0, time.UTC))
	seedTrip(t, trips, "east", "survey", origin, time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC))

	got, err := analytics.LatestDatasources(context.Background(), 2)

	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.RegionDatasource{
		{Region: "north", LatestDatasource: "funnel"},
		{Region: "south", LatestDatasource: "survey"},
	}, got)
}

func TestAnalyticsRepo_LatestDatasources_Empty(t *testing.T) {
	_, analytics := newTestRepos(t)

	got, err := analytics.LatestDatasources(context.Background(), 2)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnalyticsRepo_DistinctRegions(t *testing.T) {
	trips, analytics := newTestRepos(t)
	at := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	origin := geo.Point{Lon: 1, Lat: 1}

	seedTrip(t, trips, "south", "survey", origin, at)
	seedTrip(t, trips, "north", "survey", origin, at)
	seedTrip(t, trips, "north", "survey", origin, at.Add(time.Hour))

	regions, err := analytics.DistinctRegions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"north", "south"}, regions)
}
