package bundles

import (
	"github.com/pawfectfind/pawfectfind-backend/pkg/enums"
	pkgerrors "github.com/pawfectfind/pawfectfind-backend/pkg/errors"
)

// statusDeleted is the terminal pseudo-state reached by Delete. It is never stored.
const statusDeleted enums.BundleStatus = "deleted"

var transitions = map[enums.BundleStatus][]enums.BundleStatus{
	enums.BundleStatusDraft:  {enums.BundleStatusActive},
	enums.BundleStatusActive: {enums.BundleStatusActive, enums.BundleStatusCompleted, statusDeleted},
}

// CanTransition reports whether a bundle in from may move to to.
func CanTransition(from, to enums.BundleStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ensureTransition(from, to enums.BundleStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "bundle cannot change state").
		WithDetails(map[string]any{"from": string(from), "to": string(to)})
}
