package handler

import (
	"net/http"

	"github.com/nvaldez/trip-analytics/internal/chart"
	"github.com/nvaldez/trip-analytics/internal/domain"
)

// cheapMobileDatasource is the datasource label the cheap_mobile endpoint
// filters on.
const cheapMobileDatasource = "cheap_mobile"

type weeklyAverageResponse struct {
	Status             string  `json:"status"`
	Region             string  `json:"region"`
	WeeklyAverageTrips float64 `json:"weekly_average_trips"`
}

type weeklyAverageBBoxResponse struct {
	Status             string  `json:"status"`
	BottomLeft         string  `json:"bottom_left"`
	TopRight           string  `json:"top_right"`
	WeeklyAverageTrips float64 `json:"weekly_average_trips"`
}

type regionsResponse struct {
	Status  string   `json:"status"`
	Regions []string `json:"regions"`
}

type latestDatasourcesResponse struct {
	Status            string                    `json:"status"`
	LatestDatasources []domain.RegionDatasource `json:"latest_datasources"`
}

// weeklyAverageByRegion handles GET /api/trips/weekly/{region}.
func (s *Server) weeklyAverageByRegion(w http.ResponseWriter, r *http.Request) {
	region := pathParam(r, "region")

	avg, err := s.analytics.WeeklyAverageByRegion(r.Context(), region)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, weeklyAverageResponse{
		Status:             "success",
		Region:             region,
		WeeklyAverageTrips: avg,
	})
}

// weeklyAverageByBBox handles GET /api/trips/weekly/{bottom_left}/{top_right},
// where both segments are URL-escaped WKT points. The response echoes the
// normalized corners, which may differ from the request when the caller
// swapped an axis.
func (s *Server) weeklyAverageByBBox(w http.ResponseWriter, r *http.Request) {
	box, avg, err := s.analytics.WeeklyAverageByBBox(r.Context(),
		pathParam(r, "bottom_left"), pathParam(r, "top_right"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, weeklyAverageBBoxResponse{
		Status:             "success",
		BottomLeft:         box.BottomLeft().WKT(),
		TopRight:           box.TopRight().WKT(),
		WeeklyAverageTrips: avg,
	})
}

// cheapMobileRegions handles GET /api/trips/cheap_mobile/.
func (s *Server) cheapMobileRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.analytics.RegionsByDatasource(r.Context(), cheapMobileDatasource)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, regionsResponse{Status: "success", Regions: regions})
}

// latestDatasources handles GET /api/trips/latest_datasources/.
func (s *Server) latestDatasources(w http.ResponseWriter, r *http.Request) {
	latest, err := s.analytics.LatestDatasources(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, latestDatasourcesResponse{
		Status:            "success",
		LatestDatasources: latest,
	})
}

// plotWeeklyAverages handles GET /api/trips/plot/: one bar per region with
// its weekly trip average, rendered server-side as a PNG.
func (s *Server) plotWeeklyAverages(w http.ResponseWriter, r *http.Request) {
	regions, averages, err := s.analytics.WeeklyAverageAllRegions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	img, err := chart.RenderBarChart(regions, averages)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="weekly_average_trips_by_region.png"`)
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
