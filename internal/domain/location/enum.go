package location

// Category is the fixed listing category enumeration.
type Category string

// Category values.
const (
	Food          Category = "food"
	Cafe          Category = "cafe"
	Shop          Category = "shop"
	Service       Category = "service"
	Entertainment Category = "entertainment"
	Health        Category = "health"
	Education     Category = "education"
	Travel        Category = "travel"
	Other         Category = "other"
)

var categories = []Category{Food, Cafe, Shop, Service, Entertainment, Health, Education, Travel, Other}

// Categories returns every supported category.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	for _, v := range categories {
		if c == v {
			return true
		}
	}
	return false
}

// Status is the moderation state of a location.
type Status string

// Status values.
const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// Statuses returns every moderation status.
func Statuses() []Status {
	return []Status{Pending, Approved, Rejected}
}

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == Pending || s == Approved || s == Rejected
}
