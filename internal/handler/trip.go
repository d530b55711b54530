package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nvaldez/trip-analytics/internal/domain"
)

// tripResponse is the wire form of a stored trip: coordinates as WKT text,
// datetime in the fixed "YYYY-MM-DD HH:MM:SS" layout.
type tripResponse struct {
	ID               int64  `json:"id"`
	Region           string `json:"region"`
	OriginCoord      string `json:"origin_coord"`
	DestinationCoord string `json:"destination_coord"`
	Datetime         string `json:"datetime"`
	Datasource       string `json:"datasource"`
}

// listTripsResponse is the envelope shared by every list endpoint.
type listTripsResponse struct {
	Status  string         `json:"status"`
	Results int            `json:"results"`
	Trips   []tripResponse `json:"trips"`
}

// uploadResponse acknowledges a CSV bulk import with a row count only;
// the bulk path does not report per-row ids by design.
type uploadResponse struct {
	Status  string `json:"status"`
	Results int64  `json:"results"`
}

// addListRequest is the body of POST /addlist.
type addListRequest struct {
	Trips []domain.TripInput `json:"trips"`
}

// tripToResponse converts a domain.Trip to its wire form via the codec.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:               t.ID,
		Region:           t.Region,
		OriginCoord:      t.OriginCoord.WKT(),
		DestinationCoord: t.DestinationCoord.WKT(),
		Datetime:         domain.FormatDatetime(t.Datetime),
		Datasource:       t.Datasource,
	}
}

// tripsToListResponse wraps trips in the standard list envelope.
func tripsToListResponse(trips []domain.Trip) listTripsResponse {
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return listTripsResponse{Status: "success", Results: len(out), Trips: out}
}

// pathParam returns the named URL parameter with percent-escapes decoded;
// WKT corners and region labels may carry spaces and parentheses.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// addTrip handles POST /api/trips/add: create one trip, return the bare entity.
func (s *Server) addTrip(w http.ResponseWriter, r *http.Request) {
	var in domain.TripInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "request body must be a JSON trip")
		return
	}

	created, err := s.trips.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.countIngested("add", 1)

	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// addTripList handles POST /api/trips/addlist: create many trips with
// per-row commit so the assigned ids come back in the response.
func (s *Server) addTripList(w http.ResponseWriter, r *http.Request) {
	var req addListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, `request body must be {"trips": [...]}`)
		return
	}

	created, err := s.trips.CreateMany(r.Context(), req.Trips)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.countIngested("addlist", int64(len(created)))

	writeJSON(w, http.StatusCreated, tripsToListResponse(created))
}

// csvColumns are the required CSV header columns, in any order.
var csvColumns = []string{"region", "origin_coord", "destination_coord", "datetime", "datasource"}

// uploadCSV handles POST /api/trips/upload: bulk-import trips from a
// multipart CSV file. The first record is a header naming the columns; any
// malformed data row aborts the whole import.
func (s *Server) uploadCSV(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		badRequest(w, `multipart field "file" with a CSV body is required`)
		return
	}
	defer file.Close()

	inputs, err := parseCSVTrips(file)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	count, err := s.trips.BulkImport(r.Context(), inputs)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.countIngested("upload", count)

	writeJSON(w, http.StatusCreated, uploadResponse{Status: "success", Results: count})
}

// parseCSVTrips reads a header-first CSV stream into wire-form trip inputs.
// Only structure is validated here (header columns present, consistent field
// counts); the per-field value parsing happens in the service.
func parseCSVTrips(f io.Reader) ([]domain.TripInput, error) {
	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("CSV file is empty or unreadable")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("CSV header is missing column %q", col)
		}
	}

	var inputs []domain.TripInput
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: %v", len(inputs)+1, err)
		}
		inputs = append(inputs, domain.TripInput{
			Region:           record[index["region"]],
			OriginCoord:      record[index["origin_coord"]],
			DestinationCoord: record[index["destination_coord"]],
			Datetime:         record[index["datetime"]],
			Datasource:       record[index["datasource"]],
		})
	}
	return inputs, nil
}

// listTrips handles GET /api/trips/.
func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToListResponse(trips))
}

// getTripByID handles GET /api/trips/{id}, returning the bare entity.
func (s *Server) getTripByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		badRequest(w, "trip id must be an integer")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// listTripsByRegion handles GET /api/trips/region/{region}.
func (s *Server) listTripsByRegion(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListByRegion(r.Context(), pathParam(r, "region"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToListResponse(trips))
}

// listTripsByDatasource handles GET /api/trips/datasource/{datasource}.
func (s *Server) listTripsByDatasource(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListByDatasource(r.Context(), pathParam(r, "datasource"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToListResponse(trips))
}

// listTripsByDate handles GET /api/trips/date/{date}, date = YYYY-MM-DD.
func (s *Server) listTripsByDate(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListByDate(r.Context(), pathParam(r, "date"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToListResponse(trips))
}

// listTripsByDatetime handles GET /api/trips/datetime/{datetime},
// datetime = "YYYY-MM-DD HH:MM:SS" (URL-escaped).
func (s *Server) listTripsByDatetime(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListByDatetime(r.Context(), pathParam(r, "datetime"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripsToListResponse(trips))
}
