package location

import (
	"strings"
	"time"

	"github.com/kailas-cloud/satvach/internal/domain"
)

// Patch is a partial update. Nil fields are left unchanged; coordinates move
// only as a pair.
type Patch struct {
	Title       *string
	Description *string
	Address     *string
	Phone       *string
	Website     *string
	Category    *Category
	Latitude    *float64
	Longitude   *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Address == nil && p.Phone == nil &&
		p.Website == nil && p.Category == nil && p.Latitude == nil && p.Longitude == nil
}

// Apply returns l with p applied and the names of the fields it set.
// The result is validated as a whole.
func (l *Location) Apply(p Patch, now time.Time) (Location, []string, error) {
	if (p.Latitude == nil) != (p.Longitude == nil) {
		return Location{}, nil, domain.Invalid("latitude", "latitude and longitude must be updated together")
	}

	d := l.Draft()
	var changed []string
	setString := func(dst *string, src *string, name string) {
		if src != nil {
			*dst = *src
			changed = append(changed, name)
		}
	}
	setString(&d.Title, p.Title, FieldTitle)
	setString(&d.Description, p.Description, FieldDescription)
	setString(&d.Address, p.Address, "address")
	setString(&d.Phone, p.Phone, "phone")
	setString(&d.Website, p.Website, "website")
	if p.Category != nil {
		if *p.Category == "" {
			return Location{}, nil, domain.Invalid(FieldCategory, "must not be empty")
		}
		d.Category = *p.Category
		changed = append(changed, FieldCategory)
	}
	if p.Latitude != nil {
		d.Latitude, d.Longitude = *p.Latitude, *p.Longitude
		changed = append(changed, "latitude", "longitude")
	}

	if err := d.Validate(); err != nil {
		return Location{}, nil, err
	}
	d.Title = strings.TrimSpace(d.Title)

	return Reconstruct(l.id, d, l.status, l.createdAt, now), changed, nil
}
