package cron

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/pawfectfind/pawfectfind-backend/internal/matching"
	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
)

type fakeWarmer struct {
	breeds   []matching.BreedRef
	listErr  error
	failures map[string]error
	warmed   []string
}

func (f *fakeWarmer) Breeds(context.Context) ([]matching.BreedRef, error) {
	return f.breeds, f.listErr
}

func (f *fakeWarmer) WarmBreed(_ context.Context, breed matching.BreedRef, categoryID string) error {
	if err := f.failures[breed.Name]; err != nil {
		return err
	}
	f.warmed = append(f.warmed, breed.Name+"/"+categoryID)
	return nil
}

func newWarmJob(t *testing.T, warmer *fakeWarmer, categories ...string) Job {
	t.Helper()
	job, err := NewMatchCacheWarmJob(MatchCacheWarmJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test"}),
		Matcher:    warmer,
		Categories: categories,
	})
	if err != nil {
		t.Fatalf("NewMatchCacheWarmJob: %v", err)
	}
	return job
}

func TestMatchCacheWarmJobWarmsEveryBreedAndCategory(t *testing.T) {
	warmer := &fakeWarmer{breeds: []matching.BreedRef{{Name: "Beagle"}, {Name: "Pug"}}}
	job := newWarmJob(t, warmer, "toys", "")

	if job.Name() != "match-cache-warm" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"Beagle/", "Beagle/toys", "Pug/", "Pug/toys"}
	if len(warmer.warmed) != len(want) {
		t.Fatalf("expected %v, got %v", want, warmer.warmed)
	}
	for i := range want {
		if warmer.warmed[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, warmer.warmed)
		}
	}
}

func TestMatchCacheWarmJobAggregatesFailures(t *testing.T) {
	warmer := &fakeWarmer{
		breeds: []matching.BreedRef{{Name: "Beagle"}, {Name: "Pug"}, {Name: "Akita"}},
		failures: map[string]error{
			"Beagle": errors.New("catalog timeout"),
			"Akita":  errors.New("redis down"),
		},
	}
	err := newWarmJob(t, warmer).Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected 2 errors, got %d (%v)", got, err)
	}
	if len(warmer.warmed) != 1 || warmer.warmed[0] != "Pug/" {
		t.Fatalf("expected healthy breed to be warmed, got %v", warmer.warmed)
	}
}

func TestMatchCacheWarmJobListFailure(t *testing.T) {
	warmer := &fakeWarmer{listErr: errors.New("db down")}
	if err := newWarmJob(t, warmer).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
