package satvach

import (
	"time"

	domloc "github.com/kailas-cloud/satvach/internal/domain/location"
	dommod "github.com/kailas-cloud/satvach/internal/domain/moderation"
	"github.com/kailas-cloud/satvach/internal/domain/search/result"
)

// Category is a listing category.
type Category string

// Category constants.
const (
	CategoryFood          Category = "food"
	CategoryCafe          Category = "cafe"
	CategoryShop          Category = "shop"
	CategoryService       Category = "service"
	CategoryEntertainment Category = "entertainment"
	CategoryHealth        Category = "health"
	CategoryEducation     Category = "education"
	CategoryTravel        Category = "travel"
	CategoryOther         Category = "other"
)

// Status is the moderation state of a location.
type Status string

// Status constants.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Draft is a new location submission. Submissions always start pending.
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

// Patch is a partial update; nil fields are left unchanged.
// Latitude and Longitude must be set together.
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

// Location is a stored listing.
type Location struct {
	ID          int64
	Title       string
	Description string
	Address     string
	Phone       string
	Website     string
	Category    Category
	Status      Status
	Latitude    float64
	Longitude   float64
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Hit is a location matched by a radius search.
type Hit struct {
	Location
	DistanceMeters float64
}

// Page is one page of radius results plus the total number of matches.
type Page struct {
	Items []Hit
	Total int
}

// ListResult is one page of the moderation queue.
type ListResult struct {
	Locations []Location
	Total     int
}

// Actor identifies who performs a write. It is recorded in the history.
type Actor struct {
	ID string
	IP string
}

// HistoryEntry is one moderation event.
type HistoryEntry struct {
	ID          string
	LocationID  int64
	Action      string
	Reason      string
	ModeratorID string
	ModeratorIP string
	CreatedAt   time.Time
}

func toInternalDraft(d Draft) domloc.Draft {
	return domloc.Draft{
		Title:       d.Title,
		Description: d.Description,
		Address:     d.Address,
		Phone:       d.Phone,
		Website:     d.Website,
		Category:    domloc.Category(d.Category),
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		OwnerID:     d.OwnerID,
	}
}

func toInternalPatch(p Patch) domloc.Patch {
	out := domloc.Patch{
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Phone:       p.Phone,
		Website:     p.Website,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
	}
	if p.Category != nil {
		c := domloc.Category(*p.Category)
		out.Category = &c
	}
	return out
}

func toInternalActor(a Actor) dommod.Actor {
	return dommod.Actor{ID: a.ID, IP: a.IP}
}

func fromInternalLocation(l *domloc.Location) Location {
	p := l.Point()
	return Location{
		ID:          l.ID(),
		Title:       l.Title(),
		Description: l.Description(),
		Address:     l.Address(),
		Phone:       l.Phone(),
		Website:     l.Website(),
		Category:    Category(l.Category()),
		Status:      Status(l.Status()),
		Latitude:    p.Lat,
		Longitude:   p.Lng,
		OwnerID:     l.OwnerID(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func fromInternalLocations(locs []domloc.Location) []Location {
	out := make([]Location, len(locs))
	for i := range locs {
		out[i] = fromInternalLocation(&locs[i])
	}
	return out
}

func fromInternalHits(hits []result.Hit) []Hit {
	out := make([]Hit, len(hits))
	for i := range hits {
		loc := hits[i].Location()
		out[i] = Hit{
			Location:       fromInternalLocation(&loc),
			DistanceMeters: hits[i].DistanceMeters(),
		}
	}
	return out
}

func fromInternalEntries(entries []dommod.Entry) []HistoryEntry {
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			ID:          e.ID,
			LocationID:  e.LocationID,
			Action:      string(e.Action),
			Reason:      e.Reason,
			ModeratorID: e.ModeratorID,
			ModeratorIP: e.ModeratorIP,
			CreatedAt:   e.CreatedAt,
		}
	}
	return out
}
