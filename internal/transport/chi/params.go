package chi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/satvach/internal/domain"
)

// SearchParams are the query parameters of GET /v1/locations/search.
type SearchParams struct {
	Latitude  float64
	Longitude float64
	Radius    *int
	Query     *string
	Category  *string
	Status    *string
	Skip      *int
	Limit     *int
}

// ViewportParams are the query parameters of GET /v1/locations/viewport.
type ViewportParams struct {
	MinLng   float64
	MinLat   float64
	MaxLng   float64
	MaxLat   float64
	Category *string
	Status   *string
	Limit    *int
	Format   *string
}

// NearbyParams are the query parameters of GET /v1/locations/nearby.
type NearbyParams struct {
	Latitude  float64
	Longitude float64
	Radius    *int
	Category  *string
	Status    *string
	Limit     *int
}

// ListParams are the query parameters of GET /v1/admin/locations.
type ListParams struct {
	Status *string
	Skip   *int
	Limit  *int
}

// queryBinder binds form-style query parameters and keeps the first failure.
type queryBinder struct {
	values url.Values
	err    error
}

func newQueryBinder(r *http.Request) *queryBinder {
	return &queryBinder{values: r.URL.Query()}
}

func (b *queryBinder) required(name string, dest any) {
	b.bind(name, true, dest)
}

func (b *queryBinder) optional(name string, dest any) {
	b.bind(name, false, dest)
}

func (b *queryBinder) bind(name string, required bool, dest any) {
	if b.err != nil {
		return
	}
	if err := runtime.BindQueryParameter("form", true, required, name, b.values, dest); err != nil {
		if !b.values.Has(name) {
			b.err = domain.Invalid(name, "is required")
			return
		}
		b.err = domain.Invalid(name, "invalid format")
	}
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	var p SearchParams
	b := newQueryBinder(r)
	b.required("latitude", &p.Latitude)
	b.required("longitude", &p.Longitude)
	b.optional("radius", &p.Radius)
	b.optional("query", &p.Query)
	b.optional("category", &p.Category)
	b.optional("status", &p.Status)
	b.optional("skip", &p.Skip)
	b.optional("limit", &p.Limit)
	return p, b.err
}

func bindViewportParams(r *http.Request) (ViewportParams, error) {
	var p ViewportParams
	b := newQueryBinder(r)
	b.required("min_lng", &p.MinLng)
	b.required("min_lat", &p.MinLat)
	b.required("max_lng", &p.MaxLng)
	b.required("max_lat", &p.MaxLat)
	b.optional("category", &p.Category)
	b.optional("status", &p.Status)
	b.optional("limit", &p.Limit)
	b.optional("format", &p.Format)
	return p, b.err
}

func bindNearbyParams(r *http.Request) (NearbyParams, error) {
	var p NearbyParams
	b := newQueryBinder(r)
	b.required("latitude", &p.Latitude)
	b.required("longitude", &p.Longitude)
	b.optional("radius", &p.Radius)
	b.optional("category", &p.Category)
	b.optional("status", &p.Status)
	b.optional("limit", &p.Limit)
	return p, b.err
}

func bindListParams(r *http.Request) (ListParams, error) {
	var p ListParams
	b := newQueryBinder(r)
	b.optional("status", &p.Status)
	b.optional("skip", &p.Skip)
	b.optional("limit", &p.Limit)
	return p, b.err
}

// bindLocationID reads the {id} path parameter.
func bindLocationID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || id <= 0 {
		return 0, domain.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func itoa64(v int64) string { return strconv.FormatInt(v, 10) }
