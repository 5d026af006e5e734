package enums

import "fmt"

// Availability narrows the catalog by stock state.
type Availability string

const (
	AvailabilityAll        Availability = "all"
	AvailabilityInStock    Availability = "in-stock"
	AvailabilityOutOfStock Availability = "out-of-stock"
)

var validAvailabilities = []Availability{
	AvailabilityAll,
	AvailabilityInStock,
	AvailabilityOutOfStock,
}

// String implements fmt.Stringer.
func (a Availability) String() string {
	return string(a)
}

// IsValid reports whether the value is a known Availability.
func (a Availability) IsValid() bool {
	for _, candidate := range validAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAvailability converts raw input into an Availability.
func ParseAvailability(value string) (Availability, error) {
	for _, candidate := range validAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability %q", value)
}
