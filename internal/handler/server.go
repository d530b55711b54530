// Package handler implements the HTTP handlers for the trip analytics API.
// All handlers are methods on Server. Methods are split into files by concern
// (trip.go for ingest/lookup, analytics.go for aggregates, webhook.go,
// health.go) but all share the same Server struct so they can access its
// dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/nvaldez/trip-analytics/internal/domain"
	"github.com/nvaldez/trip-analytics/internal/geo"
	"github.com/nvaldez/trip-analytics/internal/metrics"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	CreateMany(ctx context.Context, in []domain.TripInput) ([]domain.Trip, error)
	BulkImport(ctx context.Context, in []domain.TripInput) (int64, error)
	List(ctx context.Context) ([]domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)
	ListByRegion(ctx context.Context, region string) ([]domain.Trip, error)
	ListByDatasource(ctx context.Context, datasource string) ([]domain.Trip, error)
	ListByDate(ctx context.Context, date string) ([]domain.Trip, error)
	ListByDatetime(ctx context.Context, datetime string) ([]domain.Trip, error)
}

// AnalyticsServicer defines the aggregate operations the handlers depend on.
type AnalyticsServicer interface {
	WeeklyAverageByRegion(ctx context.Context, region string) (float64, error)
	WeeklyAverageByBBox(ctx context.Context, bottomLeft, topRight string) (geo.BoundingBox, float64, error)
	RegionsByDatasource(ctx context.Context, datasource string) ([]string, error)
	LatestDatasources(ctx context.Context) ([]domain.RegionDatasource, error)
	WeeklyAverageAllRegions(ctx context.Context) ([]string, []float64, error)
}

// Server holds the handler dependencies for all API endpoints.
type Server struct {
	trips     TripServicer
	analytics AnalyticsServicer
	metrics   *metrics.Collector
}

// NewServer constructs the Server with all its dependencies.
// collector may be nil; ingestion counters are then skipped.
func NewServer(trips TripServicer, analytics AnalyticsServicer, collector *metrics.Collector) *Server {
	return &Server{trips: trips, analytics: analytics, metrics: collector}
}

// countIngested records trips written to the store, labeled by ingest path.
func (s *Server) countIngested(source string, n int64) {
	if s.metrics != nil {
		s.metrics.TripsIngested.WithLabelValues(source).Add(float64(n))
	}
}

// Routes registers every endpoint on a fresh chi router.
// Order matters inside /api/trips: the static segments (weekly, region,
// cheap_mobile, ...) are registered alongside the catch-all GET /{id};
// chi gives static segments precedence over the id parameter.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/trips", func(r chi.Router) {
		r.Post("/add", s.addTrip)
		r.Post("/addlist", s.addTripList)
		r.Post("/upload", s.uploadCSV)

		r.Get("/", s.listTrips)
		r.Get("/region/{region}", s.listTripsByRegion)
		r.Get("/datasource/{datasource}", s.listTripsByDatasource)
		r.Get("/date/{date}", s.listTripsByDate)
		r.Get("/datetime/{datetime}", s.listTripsByDatetime)

		r.Get("/weekly/{region}", s.weeklyAverageByRegion)
		r.Get("/weekly/{bottom_left}/{top_right}", s.weeklyAverageByBBox)
		r.Get("/cheap_mobile/", s.cheapMobileRegions)
		r.Get("/latest_datasources/", s.latestDatasources)
		r.Get("/plot/", s.plotWeeklyAverages)

		r.Get("/{id}", s.getTripByID)
	})

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Post("/", s.webhookAck)
		r.Get("/", s.webhookAck)
		r.Get("/{id}", s.webhookAck)
		r.Put("/{id}", s.webhookAck)
		r.Delete("/{id}", s.webhookAck)
	})

	r.Get("/api/healthchecker", s.health)

	return r
}
