// Package domain contains the core data types for the trip analytics API.
// It depends only on the stdlib and the geo codec, and is imported by the
// repo, service, and handler layers.
package domain

import (
	"time"

	"github.com/nvaldez/trip-analytics/internal/geo"
)

// Trip is the sole persisted entity: one journey from an origin point to a
// destination point, taken at a point in time, labelled with a free-form
// region and a provenance datasource.
type Trip struct {
	ID               int64
	Region           string
	OriginCoord      geo.Point
	DestinationCoord geo.Point
	Datetime         time.Time
	Datasource       string
}

// TripInput is the wire-form of a trip as it crosses the HTTP boundary:
// coordinates as WKT point text, datetime as "YYYY-MM-DD HH:MM:SS".
// The service layer parses it into a Trip before any store call.
type TripInput struct {
	Region           string `json:"region"`
	OriginCoord      string `json:"origin_coord"`
	DestinationCoord string `json:"destination_coord"`
	Datetime         string `json:"datetime"`
	Datasource       string `json:"datasource"`
}

// RegionDatasource pairs a region with the datasource of its most recent trip.
// Produced by the latest-datasources ranking query.
type RegionDatasource struct {
	Region           string `json:"region"`
	LatestDatasource string `json:"latest_datasource"`
}
