package bundles

import (
	"testing"

	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to enums.BundleStatus
		want     bool
	}{
		{enums.BundleStatusDraft, enums.BundleStatusActive, true},
		{enums.BundleStatusDraft, enums.BundleStatusCompleted, false},
		{enums.BundleStatusDraft, statusDeleted, false},
		{enums.BundleStatusActive, enums.BundleStatusActive, true},
		{enums.BundleStatusActive, enums.BundleStatusCompleted, true},
		{enums.BundleStatusActive, statusDeleted, true},
		{enums.BundleStatusActive, enums.BundleStatusDraft, false},
		{enums.BundleStatusCompleted, enums.BundleStatusActive, false},
		{enums.BundleStatusCompleted, enums.BundleStatusCompleted, false},
		{enums.BundleStatusCompleted, statusDeleted, false},
		{statusDeleted, enums.BundleStatusActive, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
