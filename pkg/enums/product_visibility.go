package enums

import "fmt"

// ProductVisibility separates published catalog listings from per-buyer copies.
type ProductVisibility string

const (
	ProductVisibilityPublic  ProductVisibility = "public"
	ProductVisibilityPrivate ProductVisibility = "private"
)

var validProductVisibilities = []ProductVisibility{
	ProductVisibilityPublic,
	ProductVisibilityPrivate,
}

// IsValid reports whether the value matches the canonical visibility enum.
func (v ProductVisibility) IsValid() bool {
	for _, candidate := range validProductVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseProductVisibility converts raw input into ProductVisibility.
func ParseProductVisibility(value string) (ProductVisibility, error) {
	for _, candidate := range validProductVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product visibility %q", value)
}
