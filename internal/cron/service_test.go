package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/multierr"

	"github.com/pawfectfind/pawfectfind-backend/pkg/logger"
	"github.com/pawfectfind/pawfectfind-backend/pkg/metrics"
)

type fakeLock struct {
	held     bool
	released int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	f.released++
	return nil
}

type countingJob struct {
	name string
	err  error
	runs int
}

func (c *countingJob) Name() string { return c.name }

func (c *countingJob) Run(context.Context) error {
	c.runs++
	return c.err
}

func newTestService(t *testing.T, lock Lock, reg prometheus.Registerer, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(reg),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestRunOnceRunsEveryJobAndCombinesFailures(t *testing.T) {
	ok := &countingJob{name: "match-cache-warm"}
	bad := &countingJob{name: "bundle-price-audit", err: errors.New("boom")}
	lock := &fakeLock{}
	service := newTestService(t, lock, nil, ok, bad)

	err := service.RunOnce(context.Background())
	if err == nil {
		t.Fatalf("expected failure from audit job")
	}
	if got := len(multierr.Errors(err)); got != 1 {
		t.Fatalf("expected one combined failure, got %d", got)
	}
	if ok.runs != 1 || bad.runs != 1 {
		t.Fatalf("expected both jobs to run once, got %d and %d", ok.runs, bad.runs)
	}
	if lock.held || lock.released != 1 {
		t.Fatalf("expected lock released once, held=%v released=%d", lock.held, lock.released)
	}
}

func TestRunOnceSelectsNamedJobs(t *testing.T) {
	warm := &countingJob{name: "match-cache-warm"}
	audit := &countingJob{name: "bundle-price-audit"}
	service := newTestService(t, &fakeLock{}, nil, warm, audit)

	if err := service.RunOnce(context.Background(), "bundle-price-audit"); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if warm.runs != 0 || audit.runs != 1 {
		t.Fatalf("expected only audit to run, got warm=%d audit=%d", warm.runs, audit.runs)
	}

	if err := service.RunOnce(context.Background(), "nope"); err == nil {
		t.Fatalf("expected unknown job error")
	}
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	reg := prometheus.NewRegistry()
	job := &countingJob{name: "match-cache-warm"}
	service := newTestService(t, &fakeLock{held: true}, reg, job)

	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job to be skipped")
	}
	expected := `
# HELP pawfectfind_catalog_worker_cycles_skipped_total Cycles skipped because another replica held the worker lock.
# TYPE pawfectfind_catalog_worker_cycles_skipped_total counter
pawfectfind_catalog_worker_cycles_skipped_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "pawfectfind_catalog_worker_cycles_skipped_total"); err != nil {
		t.Fatal(err)
	}
}

func TestRunOnceRecordsJobOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	ok := &countingJob{name: "match-cache-warm"}
	bad := &countingJob{name: "bundle-price-audit", err: errors.New("boom")}
	service := newTestService(t, &fakeLock{}, reg, ok, bad)
	tick := time.Unix(1_700_000_000, 0)
	service.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	_ = service.RunOnce(context.Background())

	expected := `
# HELP pawfectfind_catalog_worker_job_runs_total Catalog worker job runs by outcome.
# TYPE pawfectfind_catalog_worker_job_runs_total counter
pawfectfind_catalog_worker_job_runs_total{job="bundle-price-audit",outcome="failure"} 1
pawfectfind_catalog_worker_job_runs_total{job="match-cache-warm",outcome="success"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "pawfectfind_catalog_worker_job_runs_total"); err != nil {
		t.Fatal(err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	job := &countingJob{name: "match-cache-warm"}
	service := newTestService(t, &fakeLock{}, nil, job)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := service.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestNewServiceValidates(t *testing.T) {
	if _, err := NewService(ServiceParams{Lock: &fakeLock{}}); err == nil {
		t.Fatalf("expected logger error")
	}
	if _, err := NewService(ServiceParams{Logger: logger.New(logger.Options{})}); err == nil {
		t.Fatalf("expected lock error")
	}
}
