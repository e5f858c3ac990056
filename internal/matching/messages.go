package matching

import (
	"fmt"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

// InfoMessage renders the banner shown above a recommendation list.
func InfoMessage(breed string, size enums.SizeCategory, res FilterResult) string {
	switch {
	case res.CatalogEmpty:
		return "No products are available in the catalog yet"
	case res.SearchMiss:
		return fmt.Sprintf("No products match your search for %ss or %s-sized dogs", breed, size)
	case res.Empty:
		return fmt.Sprintf("No products found specifically for %ss or %s-sized dogs", breed, size)
	case res.BreedMatches == 0:
		return fmt.Sprintf("Showing %d products suitable for %s-sized dogs like %ss", res.SizeMatches, size, breed)
	default:
		return fmt.Sprintf("Showing %d %s-specific products and %d size-appropriate products", res.BreedMatches, breed, res.SizeMatches)
	}
}
