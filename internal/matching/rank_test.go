package matching

import (
	"testing"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

func TestRankBreedMatchesBeforeSizeMatches(t *testing.T) {
	t.Parallel()

	catalog := []Candidate{
		candidate("popular bed", 1000, suitable(SizeSuitability{Small: true})),
		candidate("beagle treat", 1, recommendedFor(beagleID, 70)),
		candidate("ok leash", 10, suitable(SizeSuitability{Small: true})),
		candidate("beagle toy", 2, recommendedFor(beagleID, 95)),
	}
	ranked := Rank(FilterCompatible(catalog, beagleID, enums.SizeSmall).Matches)

	want := []string{"beagle toy", "beagle treat", "popular bed", "ok leash"}
	got := names(ranked)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	seenSizeOnly := false
	for _, m := range ranked {
		if !m.BreedMatch {
			seenSizeOnly = true
		} else if seenSizeOnly {
			t.Fatalf("breed match %q ranked after a size-only match", m.Product.Name)
		}
	}
}

func TestRankUsesPopularityWhenStrengthTies(t *testing.T) {
	t.Parallel()

	catalog := []Candidate{
		candidate("a", 5, recommendedFor(beagleID, 80)),
		candidate("b", 9, recommendedFor(beagleID, 80)),
	}
	got := names(Rank(FilterCompatible(catalog, beagleID, enums.SizeSmall).Matches))
	if got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected popularity to break strength tie, got %v", got)
	}
}

func TestRankIsStableForTies(t *testing.T) {
	t.Parallel()

	base := []Candidate{
		candidate("first", 7, suitable(SizeSuitability{Large: true})),
		candidate("second", 7, suitable(SizeSuitability{Large: true})),
		candidate("third", 7, suitable(SizeSuitability{Large: true})),
	}
	got := names(Rank(FilterCompatible(base, beagleID, enums.SizeLarge).Matches))
	if got[0] != "first" || got[1] != "second" || got[2] != "third" {
		t.Fatalf("ties must keep catalog order, got %v", got)
	}

	reversed := []Candidate{base[2], base[1], base[0]}
	got = names(Rank(FilterCompatible(reversed, beagleID, enums.SizeLarge).Matches))
	if got[0] != "third" || got[1] != "second" || got[2] != "first" {
		t.Fatalf("ties must follow the new input order, got %v", got)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	matches := FilterCompatible([]Candidate{
		candidate("low", 1, suitable(SizeSuitability{Giant: true})),
		candidate("high", 100, suitable(SizeSuitability{Giant: true})),
	}, beagleID, enums.SizeGiant).Matches

	_ = Rank(matches)
	if matches[0].Product.Name != "low" {
		t.Fatalf("input slice was reordered")
	}
	if len(Rank(nil)) != 0 {
		t.Fatalf("ranking nothing should return nothing")
	}
}
