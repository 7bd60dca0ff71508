package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/model"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/observability"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/sheet"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/store"
)

// Runner coordinates one ingestion run per category: fetch, normalize,
// upsert. A run is single-threaded end to end; categories never share a
// database file, so separate categories may run concurrently.
type Runner struct {
	client  *Client
	dataDir string
	clock   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Options is the orchestration policy around individual runs.
type Options struct {
	Timeout time.Duration // per-attempt timeout, 0 = none
	Retries int           // additional attempts after the first
	Workers int           // concurrent categories in RunAll
	Force   bool          // ignore the skip-if-populated guard
}

// NewRunner builds a runner. A nil clock means wall-clock time; tests
// inject a fixed clock for deterministic "Date Added to Tool" values.
func NewRunner(client *Client, dataDir string, clock func() time.Time) *Runner {
	if clock == nil {
		clock = time.Now
	}
	return &Runner{
		client:  client,
		dataDir: dataDir,
		clock:   clock,
		locks:   make(map[string]*sync.Mutex),
	}
}

// DBPath returns the category's database file path.
func (r *Runner) DBPath(cat model.Category) string {
	return filepath.Join(r.dataDir, cat.Name+".db")
}

// categoryLock serializes runs per category within this process. Two
// simultaneous runs against one catalog race on insert/update; cross-process
// serialization stays the orchestrator's job.
func (r *Runner) categoryLock(name string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[name]
	if !ok {
		l = &sync.Mutex{}
		r.locks[name] = l
	}
	return l
}

// Run executes one ingestion run for a category. The report always comes
// back; a failed run carries status "error" and the error message.
func (r *Runner) Run(ctx context.Context, cat model.Category) *model.Report {
	lock := r.categoryLock(cat.Name)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	report := &model.Report{
		RunID:    uuid.NewString(),
		Category: cat.Name,
		Status:   "ok",
		Attempts: 1,
	}

	fail := func(err error) *model.Report {
		report.Status = "error"
		report.Error = err.Error()
		report.Duration = time.Since(start)
		observability.IngestRuns.WithLabelValues(cat.Name, "error").Inc()
		log.Printf("[%s] run %s failed: %v", cat.Name, report.RunID, err)
		return report
	}

	log.Printf("[%s] run %s: downloading %s", cat.Name, report.RunID, cat.Filename)
	data, err := r.client.FetchSpreadsheet(ctx, cat.Filename)
	if err != nil {
		observability.FetchFailures.WithLabelValues(cat.Name).Inc()
		return fail(err)
	}

	raw, err := sheet.ReadWorkbook(data)
	if err != nil {
		return fail(err)
	}

	batch, fallbackUsed, err := sheet.Normalize(raw, cat, r.clock())
	if err != nil {
		return fail(err)
	}
	report.RowsParsed = len(batch.Records)
	report.FallbackUsed = fallbackUsed
	if fallbackUsed {
		log.Printf("[%s] full binding set unsatisfiable, using reduced field set", cat.Name)
	}

	st, err := store.Open(r.DBPath(cat))
	if err != nil {
		return fail(err)
	}
	defer st.Close()

	res, err := st.Upsert(cat, batch)
	if err != nil {
		return fail(fmt.Errorf("upsert failed: %w", err))
	}

	report.Inserted = res.Inserted
	report.Updated = res.Updated
	report.Skipped = res.Skipped
	report.Recreated = res.Recreated
	report.Duration = time.Since(start)

	observability.IngestRuns.WithLabelValues(cat.Name, "ok").Inc()
	observability.RowsInserted.WithLabelValues(cat.Name).Add(float64(res.Inserted))
	observability.RowsUpdated.WithLabelValues(cat.Name).Add(float64(res.Updated))
	observability.RowsSkipped.WithLabelValues(cat.Name).Add(float64(res.Skipped))
	observability.IngestDuration.WithLabelValues(cat.Name).Observe(report.Duration.Seconds())

	log.Printf("[%s] run %s: %d rows parsed, %d inserted, %d updated, %d skipped (%.2fs)",
		cat.Name, report.RunID, report.RowsParsed, res.Inserted, res.Updated, res.Skipped,
		report.Duration.Seconds())
	return report
}

// RunWithPolicy wraps Run with the orchestrator policy: the
// skip-if-populated guard, a per-attempt timeout, and bounded retries with
// exponential backoff.
func (r *Runner) RunWithPolicy(ctx context.Context, cat model.Category, opts Options) *model.Report {
	if !opts.Force {
		if info, err := os.Stat(r.DBPath(cat)); err == nil && info.Size() > 0 {
			log.Printf("[%s] database already populated, skipping", cat.Name)
			return &model.Report{
				RunID:    uuid.NewString(),
				Category: cat.Name,
				Status:   "skipped",
			}
		}
	}

	var report *model.Report
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		attemptCtx := ctx
		cancel := func() {}
		if opts.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		}
		report = r.Run(attemptCtx, cat)
		cancel()

		report.Attempts = attempt + 1
		if report.Status != "error" {
			return report
		}
		if attempt == opts.Retries {
			break
		}

		wait := time.Duration(1<<uint(attempt)) * time.Second
		log.Printf("[%s] attempt %d/%d failed, retrying in %s", cat.Name, attempt+1, opts.Retries+1, wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return report
		}
	}
	return report
}

// RunAll ingests the given categories with a bounded worker pool. Results
// keep the input order.
func (r *Runner) RunAll(ctx context.Context, categories []model.Category, opts Options) []*model.Report {
	workers := opts.Workers
	if workers <= 0 {
		workers = 3
	}
	if workers > len(categories) {
		workers = len(categories)
	}

	reports := make([]*model.Report, len(categories))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = r.RunWithPolicy(ctx, categories[i], opts)
			}
		}()
	}
	for i := range categories {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return reports
}
