// Package sizing maps a dog onto a canonical size bucket.
package sizing

import (
	"math"
	"strings"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// Source records which input decided a classification.
type Source string

const (
	SourceBreed  Source = "breed"
	SourceWeight Source = "weight"
)

// Inclusive upper bounds in kilograms. Anything above the last bound is giant.
var weightThresholds = []struct {
	maxKG float64
	size  enums.SizeCategory
}{
	{4, enums.SizeToy},
	{12, enums.SizeMini},
	{25, enums.SizeSmall},
	{50, enums.SizeMedium},
	{90, enums.SizeLarge},
}

// Dog is the classifier input.
type Dog struct {
	Breed  string
	Weight float64
}

// BreedLookup resolves the registered size of a breed by name.
type BreedLookup interface {
	SizeForBreed(name string) (enums.SizeCategory, bool)
}

// LookupFunc adapts a plain function to BreedLookup.
type LookupFunc func(name string) (enums.SizeCategory, bool)

func (f LookupFunc) SizeForBreed(name string) (enums.SizeCategory, bool) {
	return f(name)
}

// StaticLookup is an in-memory BreedLookup keyed by normalized breed name.
type StaticLookup map[string]enums.SizeCategory

// NewStaticLookup normalizes the keys of sizes.
func NewStaticLookup(sizes map[string]enums.SizeCategory) StaticLookup {
	out := make(StaticLookup, len(sizes))
	for name, size := range sizes {
		out[NormalizeBreed(name)] = size
	}
	return out
}

func (s StaticLookup) SizeForBreed(name string) (enums.SizeCategory, bool) {
	size, ok := s[NormalizeBreed(name)]
	return size, ok
}

// Classification is a size bucket plus the input that produced it.
type Classification struct {
	Size   enums.SizeCategory `json:"size"`
	Source Source             `json:"source"`
}

// NoBreedData reports whether the classification fell back to weight.
func (c Classification) NoBreedData() bool {
	return c.Source == SourceWeight
}

// Classify returns the size bucket for dog. Registered breed data wins over
// weight; it never fails.
func Classify(dog Dog, lookup BreedLookup) enums.SizeCategory {
	return ClassifyDetailed(dog, lookup).Size
}

// ClassifyDetailed is Classify that also reports the deciding source.
func ClassifyDetailed(dog Dog, lookup BreedLookup) Classification {
	if lookup != nil && strings.TrimSpace(dog.Breed) != "" {
		if size, ok := lookup.SizeForBreed(dog.Breed); ok && size.IsValid() {
			return Classification{Size: size, Source: SourceBreed}
		}
	}
	return Classification{Size: FromWeight(dog.Weight), Source: SourceWeight}
}

// FromWeight buckets a weight in kg. NaN and non-positive values land in toy.
func FromWeight(weight float64) enums.SizeCategory {
	if math.IsNaN(weight) || weight <= 0 {
		return enums.SizeToy
	}
	for _, t := range weightThresholds {
		if weight <= t.maxKG {
			return t.size
		}
	}
	return enums.SizeGiant
}

// BucketIndex returns the ordinal of size, toy being 0.
func BucketIndex(size enums.SizeCategory) int {
	return size.Index()
}

// NormalizeBreed is the comparison form of a breed name.
func NormalizeBreed(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
