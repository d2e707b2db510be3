package chi

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/satvach/internal/domain"
	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
	"github.com/kailas-cloud/satvach/internal/domain/search/request"
	"github.com/kailas-cloud/satvach/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/satvach/internal/usecase/health"
	locationuc "github.com/kailas-cloud/satvach/internal/usecase/location"
	searchuc "github.com/kailas-cloud/satvach/internal/usecase/search"
	"github.com/kailas-cloud/satvach/internal/version"
)

// Viewport response formats.
const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Server serves the locations HTTP API.
type Server struct {
	locations     *locationuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	defaultRadius int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. defaultRadius applies to radius
// searches that omit the radius parameter; zero keeps request.DefaultRadius.
func NewServer(
	locations *locationuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	defaultRadius int,
) *Server {
	if defaultRadius == 0 {
		defaultRadius = request.DefaultRadius
	}
	return &Server{
		locations:     locations,
		search:        search,
		health:        health,
		defaultRadius: defaultRadius,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/locations/search", s.SearchLocations)
		r.Get("/locations/viewport", s.SearchViewport)
		r.Get("/locations/nearby", s.SearchNearby)
		r.Post("/locations", s.CreateLocation)
		r.Get("/locations/{id}", s.GetLocation)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/stats", s.GetStats)
			r.Get("/locations", s.ListLocations)
			r.Patch("/locations/{id}", s.UpdateLocation)
			r.Patch("/locations/{id}/status", s.UpdateLocationStatus)
			r.Delete("/locations/{id}", s.DeleteLocation)
			r.Get("/locations/{id}/moderation", s.GetModerationHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// SearchLocations handles GET /v1/locations/search.
func (s *Server) SearchLocations(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := requireStatusAccess(r, params.Status); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if params.Radius == nil {
		params.Radius = &s.defaultRadius
	}
	req, err := request.NewRadius(request.RadiusParams{
		Latitude:  params.Latitude,
		Longitude: params.Longitude,
		Radius:    params.Radius,
		Query:     deref(params.Query),
		Category:  deref(params.Category),
		Status:    deref(params.Status),
		Skip:      params.Skip,
		Limit:     params.Limit,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LocationListResponse{
		Items: hitsToResponse(page.Items),
		Total: page.Total,
		Skip:  req.Skip(),
		Limit: req.Limit(),
	})
}

// SearchViewport handles GET /v1/locations/viewport.
func (s *Server) SearchViewport(w http.ResponseWriter, r *http.Request) {
	params, err := bindViewportParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	format := formatJSON
	if params.Format != nil {
		format = *params.Format
	}
	if format != formatJSON && format != formatGeoJSON {
		s.handleDomainError(w, r, domain.Invalid("format", "must be json or geojson"))
		return
	}
	if err := requireStatusAccess(r, params.Status); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req, err := request.NewViewport(request.ViewportParams{
		MinLng:   params.MinLng,
		MinLat:   params.MinLat,
		MaxLng:   params.MaxLng,
		MaxLat:   params.MaxLat,
		Category: deref(params.Category),
		Status:   deref(params.Status),
		Limit:    params.Limit,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	locs, err := s.search.SearchViewport(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if format == formatGeoJSON {
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(locationsToFeatureCollection(locs))
		return
	}
	writeJSON(w, http.StatusOK, LocationItemsResponse{Items: locationsToResponse(locs)})
}

// SearchNearby handles GET /v1/locations/nearby.
func (s *Server) SearchNearby(w http.ResponseWriter, r *http.Request) {
	params, err := bindNearbyParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := requireStatusAccess(r, params.Status); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req, err := request.NewNearby(request.NearbyParams{
		Latitude:  params.Latitude,
		Longitude: params.Longitude,
		Radius:    params.Radius,
		Category:  deref(params.Category),
		Status:    deref(params.Status),
		Limit:     params.Limit,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	hits, err := s.search.SearchRadius(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LocationItemsResponse{Items: hitsToResponse(hits)})
}

// CreateLocation handles POST /v1/locations. New locations await moderation.
func (s *Server) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var body CreateLocationRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Latitude == nil || body.Longitude == nil {
		s.handleDomainError(w, r, domain.Invalid("latitude", "latitude and longitude are required"))
		return
	}

	caller := IdentityFromContext(r.Context())
	loc, err := s.locations.Submit(r.Context(), domloc.Draft{
		Title:       body.Title,
		Description: body.Description,
		Address:     body.Address,
		Phone:       body.Phone,
		Website:     body.Website,
		Category:    domloc.Category(body.Category),
		Latitude:    *body.Latitude,
		Longitude:   *body.Longitude,
		OwnerID:     caller.ID,
	}, actorFromRequest(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/v1/locations/"+itoa64(loc.ID()))
	writeJSON(w, http.StatusCreated, locationToResponse(&loc))
}

// GetLocation handles GET /v1/locations/{id}. Only admins see unapproved locations.
func (s *Server) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := bindLocationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	loc, err := s.locations.Get(r.Context(), id, IdentityFromContext(r.Context()).Admin)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationToResponse(&loc))
}

// ListLocations handles GET /v1/admin/locations.
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	params, err := bindListParams(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	skip, limit := derefInt(params.Skip), derefInt(params.Limit)
	if params.Limit != nil && limit == 0 {
		s.handleDomainError(w, r, domain.Invalid("limit", fmt.Sprintf("must be between 1 and %d", locationuc.MaxListLimit)))
		return
	}
	if limit == 0 {
		limit = locationuc.DefaultListLimit
	}

	items, total, err := s.locations.List(r.Context(), domloc.Status(deref(params.Status)), skip, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LocationListResponse{
		Items: locationsToResponse(items),
		Total: total,
		Skip:  skip,
		Limit: limit,
	})
}

// GetStats handles GET /v1/admin/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.locations.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	resp := StatsResponse{
		Pending:  stats[domloc.Pending],
		Approved: stats[domloc.Approved],
		Rejected: stats[domloc.Rejected],
	}
	resp.Total = resp.Pending + resp.Approved + resp.Rejected
	writeJSON(w, http.StatusOK, resp)
}

// UpdateLocation handles PATCH /v1/admin/locations/{id}.
func (s *Server) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := bindLocationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var body UpdateLocationRequest
	if !decodeBody(w, r, &body) {
		return
	}

	p := domloc.Patch{
		Title:       body.Title,
		Description: body.Description,
		Address:     body.Address,
		Phone:       body.Phone,
		Website:     body.Website,
		Latitude:    body.Latitude,
		Longitude:   body.Longitude,
	}
	if body.Category != nil {
		c := domloc.Category(*body.Category)
		p.Category = &c
	}

	loc, err := s.locations.Update(r.Context(), id, p, actorFromRequest(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationToResponse(&loc))
}

// UpdateLocationStatus handles PATCH /v1/admin/locations/{id}/status.
func (s *Server) UpdateLocationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := bindLocationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var body StatusUpdateRequest
	if !decodeBody(w, r, &body) {
		return
	}

	loc, err := s.locations.SetStatus(r.Context(), id, domloc.Status(body.Status), deref(body.Reason), actorFromRequest(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationToResponse(&loc))
}

// DeleteLocation handles DELETE /v1/admin/locations/{id}.
func (s *Server) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := bindLocationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.locations.Delete(r.Context(), id, actorFromRequest(r)); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetModerationHistory handles GET /v1/admin/locations/{id}/moderation.
func (s *Server) GetModerationHistory(w http.ResponseWriter, r *http.Request) {
	id, err := bindLocationID(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	entries, err := s.locations.History(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]ModerationEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = ModerationEntryResponse{
			ID:          e.ID,
			LocationID:  e.LocationID,
			Action:      string(e.Action),
			Reason:      e.Reason,
			ModeratorID: e.ModeratorID,
			CreatedAt:   e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, ModerationHistoryResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		LatencyMs: float64(report.Latency.Microseconds()) / 1000,
		Version:   version.Version,
	})
}

// requireStatusAccess gates searches for unapproved statuses to admins.
func requireStatusAccess(r *http.Request, status *string) error {
	if status == nil {
		return nil
	}
	if st := domloc.Status(*status); !st.IsValid() || st == domloc.Approved {
		return nil
	}
	if !IdentityFromContext(r.Context()).Admin {
		return fmt.Errorf("search %s locations: %w", *status, domain.ErrForbidden)
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func actorFromRequest(r *http.Request) dommod.Actor {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return dommod.Actor{ID: IdentityFromContext(r.Context()).ID, IP: ip}
}

func locationToResponse(l *domloc.Location) LocationResponse {
	p := l.Point()
	return LocationResponse{
		ID:          l.ID(),
		Title:       l.Title(),
		Description: l.Description(),
		Address:     l.Address(),
		Phone:       l.Phone(),
		Website:     l.Website(),
		Category:    string(l.Category()),
		Status:      string(l.Status()),
		Latitude:    p.Lat,
		Longitude:   p.Lng,
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func locationsToResponse(locs []domloc.Location) []LocationResponse {
	out := make([]LocationResponse, len(locs))
	for i := range locs {
		out[i] = locationToResponse(&locs[i])
	}
	return out
}

func hitsToResponse(hits []result.Hit) []LocationResponse {
	out := make([]LocationResponse, len(hits))
	for i := range hits {
		loc := hits[i].Location()
		d := hits[i].DistanceMeters()
		out[i] = locationToResponse(&loc)
		out[i].DistanceMeters = &d
	}
	return out
}
