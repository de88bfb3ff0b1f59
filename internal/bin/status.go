// Package bin describes the state of the trash and the operations that
// observe and mutate it.
package bin

// Status represents the occupancy of the trash as last observed
type Status int

const (
	// StatusEmpty indicates the trash holds no items
	StatusEmpty Status = iota

	// StatusNonEmpty indicates the trash holds at least one item
	StatusNonEmpty

	// StatusUnknown indicates the query failed. It is never treated as empty.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusNonEmpty:
		return "non-empty"
	default:
		return "unknown"
	}
}

// StatusFromQuery maps the raw outcome of an occupancy query to a Status.
// A non-zero code always wins over the item count.
func StatusFromQuery(code int, items int) Status {
	switch {
	case code != 0:
		return StatusUnknown
	case items == 0:
		return StatusEmpty
	default:
		return StatusNonEmpty
	}
}

// Occupancy is the detailed result of a successful query
type Occupancy struct {
	// Items is the number of top-level entries across all trash locations
	Items int

	// Size is the total size in bytes of the top-level entries
	Size int64

	// Locations is the number of trash directories inspected
	Locations int
}

// Status returns the Status for a successful query with this occupancy
func (o Occupancy) Status() Status {
	return StatusFromQuery(0, o.Items)
}
