package enums

import "testing"

func TestSizeCategoryOrdering(t *testing.T) {
	t.Parallel()

	sizes := SizeCategories()
	for i, size := range sizes {
		if size.Index() != i {
			t.Fatalf("expected %s at index %d, got %d", size, i, size.Index())
		}
	}
	if SizeCategory("huge").Index() != -1 {
		t.Fatalf("unknown size should have index -1")
	}

	sizes[0] = SizeGiant
	if SizeCategories()[0] != SizeToy {
		t.Fatalf("SizeCategories must return a copy")
	}
}

func TestParseSizeCategoryNormalizes(t *testing.T) {
	t.Parallel()

	got, err := ParseSizeCategory("  Medium ")
	if err != nil || got != SizeMedium {
		t.Fatalf("expected medium, got %q err=%v", got, err)
	}
	if _, err := ParseSizeCategory("tiny"); err == nil {
		t.Fatalf("expected error for unknown size")
	}
}

func TestBundleStatusPersistable(t *testing.T) {
	t.Parallel()

	if BundleStatusDraft.IsPersistable() {
		t.Fatalf("draft bundles must never be persisted")
	}
	if !BundleStatusActive.IsPersistable() || !BundleStatusCompleted.IsPersistable() {
		t.Fatalf("active and completed bundles are persistable")
	}
	if _, err := ParseBundleStatus("archived"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestParseProductSortDefaultsToPopular(t *testing.T) {
	t.Parallel()

	got, err := ParseProductSort("")
	if err != nil || got != ProductSortPopular {
		t.Fatalf("expected popular default, got %q err=%v", got, err)
	}
	got, err = ParseProductSort("PRICE-ASC")
	if err != nil || got != ProductSortPriceAsc {
		t.Fatalf("expected price-asc, got %q err=%v", got, err)
	}
	if _, err := ParseProductSort("newest"); err == nil {
		t.Fatalf("expected error for unsupported sort")
	}
}

func TestGenderAndLifeStageParsing(t *testing.T) {
	t.Parallel()

	if g, err := ParseGender("female"); err != nil || g != GenderFemale {
		t.Fatalf("unexpected gender parse %q err=%v", g, err)
	}
	if _, err := ParseGender("unknown"); err == nil {
		t.Fatalf("expected gender error")
	}
	if l, err := ParseLifeStage("senior"); err != nil || l != LifeStageSenior {
		t.Fatalf("unexpected life stage parse %q err=%v", l, err)
	}
	if LifeStage("elder").IsValid() {
		t.Fatalf("unexpected valid life stage")
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Fatalf("expected admin, got %q err=%v", r, err)
	}
	if _, err := ParseRole("owner"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
