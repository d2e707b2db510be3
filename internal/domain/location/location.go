package location

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kailas-cloud/satvach/internal/domain"
	"github.com/kailas-cloud/satvach/internal/domain/geo"
)

// Field limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxAddressLength     = 500
	MaxPhoneLength       = 20
	MaxWebsiteLength     = 500
)

// Field names addressable by filter conditions.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldStatus      = "status"
)

var phoneRegex = regexp.MustCompile(`^[\d\s+\-()]*$`)

// Draft holds user-supplied fields of a location submission.
type Draft struct {
	Title       string
	Description string
	Address     string
	Phone       string
	Website     string
	Category    Category
	Latitude    float64
	Longitude   float64
	OwnerID     string
}

// Validate checks field limits, category and coordinates.
func (d *Draft) Validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return domain.Invalid(FieldTitle, "is required")
	}
	if len([]rune(title)) > MaxTitleLength {
		return domain.Invalid(FieldTitle, fmt.Sprintf("too long (max %d chars)", MaxTitleLength))
	}
	if len([]rune(d.Description)) > MaxDescriptionLength {
		return domain.Invalid(FieldDescription, fmt.Sprintf("too long (max %d chars)", MaxDescriptionLength))
	}
	if len([]rune(d.Address)) > MaxAddressLength {
		return domain.Invalid("address", fmt.Sprintf("too long (max %d chars)", MaxAddressLength))
	}
	if len(d.Phone) > MaxPhoneLength || !phoneRegex.MatchString(d.Phone) {
		return domain.Invalid("phone", "must be up to 20 digits, spaces or +-()")
	}
	if len(d.Website) > MaxWebsiteLength {
		return domain.Invalid("website", fmt.Sprintf("too long (max %d chars)", MaxWebsiteLength))
	}
	if d.Category == "" {
		d.Category = Other
	}
	if !d.Category.IsValid() {
		return domain.Invalid(FieldCategory, fmt.Sprintf("unknown category %q", d.Category))
	}
	return validatePoint(geo.Point{Lat: d.Latitude, Lng: d.Longitude})
}

func validatePoint(p geo.Point) error {
	if !geo.ValidLatitude(p.Lat) {
		return domain.Invalid("latitude", "must be between -90 and 90")
	}
	if !geo.ValidLongitude(p.Lng) {
		return domain.Invalid("longitude", "must be between -180 and 180")
	}
	if !geo.Indexable(p) {
		return domain.Invalid("latitude", fmt.Sprintf("must be between -%g and %g to be indexed",
			geo.MaxIndexLatitude, geo.MaxIndexLatitude))
	}
	return nil
}

// Location is a geotagged listing (immutable value object).
type Location struct {
	id          int64
	title       string
	description string
	address     string
	phone       string
	website     string
	category    Category
	status      Status
	point       geo.Point
	ownerID     string
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates a draft and creates a pending Location without an ID.
func New(d Draft, now time.Time) (Location, error) {
	if err := d.Validate(); err != nil {
		return Location{}, err
	}
	d.Title = strings.TrimSpace(d.Title)
	return Reconstruct(0, d, Pending, now, now), nil
}

// Reconstruct restores a Location from storage (no validation).
func Reconstruct(id int64, d Draft, status Status, createdAt, updatedAt time.Time) Location {
	return Location{
		id:          id,
		title:       d.Title,
		description: d.Description,
		address:     d.Address,
		phone:       d.Phone,
		website:     d.Website,
		category:    d.Category,
		status:      status,
		point:       geo.Point{Lat: d.Latitude, Lng: d.Longitude},
		ownerID:     d.OwnerID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the location identifier (0 until stored).
func (l *Location) ID() int64 { return l.id }

// Title returns the listing title.
func (l *Location) Title() string { return l.title }

// Description returns the long description.
func (l *Location) Description() string { return l.description }

// Address returns the postal address.
func (l *Location) Address() string { return l.address }

// Phone returns the contact phone.
func (l *Location) Phone() string { return l.phone }

// Website returns the contact website.
func (l *Location) Website() string { return l.website }

// Category returns the listing category.
func (l *Location) Category() Category { return l.category }

// Status returns the moderation status.
func (l *Location) Status() Status { return l.status }

// Point returns the listing coordinates.
func (l *Location) Point() geo.Point { return l.point }

// OwnerID returns the submitter identity.
func (l *Location) OwnerID() string { return l.ownerID }

// CreatedAt returns the creation time.
func (l *Location) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns the last modification time.
func (l *Location) UpdatedAt() time.Time { return l.updatedAt }

// Draft returns the user-supplied fields of l.
func (l *Location) Draft() Draft {
	return Draft{
		Title:       l.title,
		Description: l.description,
		Address:     l.address,
		Phone:       l.phone,
		Website:     l.website,
		Category:    l.category,
		Latitude:    l.point.Lat,
		Longitude:   l.point.Lng,
		OwnerID:     l.ownerID,
	}
}

// Field returns the string value of a filterable field, or "" for unknown names.
func (l *Location) Field(name string) string {
	switch name {
	case FieldTitle:
		return l.title
	case FieldDescription:
		return l.description
	case FieldCategory:
		return string(l.category)
	case FieldStatus:
		return string(l.status)
	default:
		return ""
	}
}

// WithID returns a copy of l carrying id.
func (l *Location) WithID(id int64) Location {
	c := *l
	c.id = id
	return c
}

// WithStatus returns a copy of l moved to status s.
func (l *Location) WithStatus(s Status, now time.Time) Location {
	c := *l
	c.status = s
	c.updatedAt = now
	return c
}
