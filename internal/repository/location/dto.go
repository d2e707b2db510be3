package location

import (
	"fmt"
	"strconv"
	"time"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
)

// Hash field names.
const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldAddress     = "address"
	fieldPhone       = "phone"
	fieldWebsite     = "website"
	fieldCategory    = "category"
	fieldStatus      = "status"
	fieldLatitude    = "lat"
	fieldLongitude   = "lng"
	fieldOwnerID     = "owner_id"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields converts a domain Location into a flat map[string]string for HSET.
func buildHashFields(loc *domloc.Location) map[string]string {
	p := loc.Point()
	return map[string]string{
		fieldID:          strconv.FormatInt(loc.ID(), 10),
		fieldTitle:       loc.Title(),
		fieldDescription: loc.Description(),
		fieldAddress:     loc.Address(),
		fieldPhone:       loc.Phone(),
		fieldWebsite:     loc.Website(),
		fieldCategory:    string(loc.Category()),
		fieldStatus:      string(loc.Status()),
		fieldLatitude:    strconv.FormatFloat(p.Lat, 'f', -1, 64),
		fieldLongitude:   strconv.FormatFloat(p.Lng, 'f', -1, 64),
		fieldOwnerID:     loc.OwnerID(),
		fieldCreatedAt:   loc.CreatedAt().UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:   loc.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// parseHashFields converts a flat hash map back into a domain Location.
func parseHashFields(m map[string]string) (domloc.Location, error) {
	id, err := strconv.ParseInt(m[fieldID], 10, 64)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("parse id %q: %w", m[fieldID], err)
	}
	lat, err := strconv.ParseFloat(m[fieldLatitude], 64)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("location %d: parse latitude: %w", id, err)
	}
	lng, err := strconv.ParseFloat(m[fieldLongitude], 64)
	if err != nil {
		return domloc.Location{}, fmt.Errorf("location %d: parse longitude: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	if err != nil {
		return domloc.Location{}, fmt.Errorf("location %d: parse created_at: %w", id, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, m[fieldUpdatedAt])
	if err != nil {
		return domloc.Location{}, fmt.Errorf("location %d: parse updated_at: %w", id, err)
	}

	d := domloc.Draft{
		Title:       m[fieldTitle],
		Description: m[fieldDescription],
		Address:     m[fieldAddress],
		Phone:       m[fieldPhone],
		Website:     m[fieldWebsite],
		Category:    domloc.Category(m[fieldCategory]),
		Latitude:    lat,
		Longitude:   lng,
		OwnerID:     m[fieldOwnerID],
	}
	return domloc.Reconstruct(id, d, domloc.Status(m[fieldStatus]), createdAt, updatedAt), nil
}
