package enums

import "fmt"

// MixStatus tracks where a mix sits in its lifecycle.
type MixStatus string

const (
	MixStatusFavorite  MixStatus = "favorite"
	MixStatusPublished MixStatus = "published"
	MixStatusPrivate   MixStatus = "private"
)

var validMixStatuses = []MixStatus{
	MixStatusFavorite,
	MixStatusPublished,
	MixStatusPrivate,
}

// IsValid reports whether the value matches the canonical mix status enum.
func (s MixStatus) IsValid() bool {
	for _, candidate := range validMixStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMixStatus converts raw input into MixStatus.
func ParseMixStatus(value string) (MixStatus, error) {
	for _, candidate := range validMixStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mix status %q", value)
}
