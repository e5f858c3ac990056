package enums

import "fmt"

// BundleStatus tracks where a bundle sits in its lifecycle.
type BundleStatus string

const (
	// BundleStatusDraft only exists in memory while the builder is open.
	BundleStatusDraft     BundleStatus = "draft"
	BundleStatusActive    BundleStatus = "active"
	BundleStatusCompleted BundleStatus = "completed"
)

var validBundleStatuses = []BundleStatus{
	BundleStatusDraft,
	BundleStatusActive,
	BundleStatusCompleted,
}

// String implements fmt.Stringer.
func (b BundleStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BundleStatus.
func (b BundleStatus) IsValid() bool {
	for _, candidate := range validBundleStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsPersistable reports whether the status may be written to storage.
func (b BundleStatus) IsPersistable() bool {
	return b == BundleStatusActive || b == BundleStatusCompleted
}

// ParseBundleStatus converts raw input into a BundleStatus.
func ParseBundleStatus(value string) (BundleStatus, error) {
	for _, candidate := range validBundleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bundle status %q", value)
}
