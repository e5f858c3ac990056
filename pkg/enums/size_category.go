package enums

import (
	"fmt"
	"strings"
)

// SizeCategory is the canonical dog size bucket.
type SizeCategory string

const (
	SizeToy    SizeCategory = "toy"
	SizeMini   SizeCategory = "mini"
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
	SizeGiant  SizeCategory = "giant"
)

// validSizeCategories is ordered from smallest to largest.
var validSizeCategories = []SizeCategory{
	SizeToy,
	SizeMini,
	SizeSmall,
	SizeMedium,
	SizeLarge,
	SizeGiant,
}

// SizeCategories returns every size bucket, smallest first.
func SizeCategories() []SizeCategory {
	out := make([]SizeCategory, len(validSizeCategories))
	copy(out, validSizeCategories)
	return out
}

// String implements fmt.Stringer.
func (s SizeCategory) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SizeCategory.
func (s SizeCategory) IsValid() bool {
	return s.Index() >= 0
}

// Index returns the bucket position (toy=0 ... giant=5) or -1 when unknown.
func (s SizeCategory) Index() int {
	for i, candidate := range validSizeCategories {
		if candidate == s {
			return i
		}
	}
	return -1
}

// ParseSizeCategory converts raw input into a SizeCategory.
func ParseSizeCategory(value string) (SizeCategory, error) {
	normalized := SizeCategory(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid size category %q", value)
}
