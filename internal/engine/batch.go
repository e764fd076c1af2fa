package engine

// batch.go validates independent files concurrently. Files share no mutable
// state: each gets its own Result, and the TableSchema values they share are
// read-only after load, so a fixed-size worker pool needs no coordination
// beyond the job channel.

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/JonMunkholm/DataGate/internal/schema"
)

// DefaultWorkers is the worker pool size when none is configured. Each
// in-flight file holds all of its rows in memory, so the bound is memory,
// not CPU.
const DefaultWorkers = 4

// Source reads a data file and decodes it into logical lines, one record
// per line. Encoding conversion happens behind this boundary.
type Source func(path, encoding string) ([]string, error)

// FileJob is one file to validate against a resolved schema.
type FileJob struct {
	Path   string
	Schema *schema.TableSchema
}

// FileOutcome is the per-file outcome of a batch. Exactly one of Result and
// Err is set: a file either completes its pass and publishes a full Result,
// or it fails with a process-level fault and publishes nothing partial.
type FileOutcome struct {
	Job    FileJob
	Result *Result
	Err    error
}

// ValidateBatch validates the given files with a pool of workers and
// returns outcomes in job order. Cancelling the context stops unstarted
// files; a file already in its pass runs to completion (the pass has no
// suspension points).
func ValidateBatch(ctx context.Context, jobs []FileJob, workers int, read Source) []FileOutcome {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	outcomes := make([]FileOutcome, len(jobs))
	jobCh := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				outcomes[i] = runJob(ctx, jobs[i], read)
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			// Mark the remaining jobs cancelled and stop feeding.
			for j := i; j < len(jobs); j++ {
				outcomes[j] = FileOutcome{Job: jobs[j], Err: ctx.Err()}
			}
			close(jobCh)
			wg.Wait()
			return outcomes
		case jobCh <- i:
		}
	}
	close(jobCh)
	wg.Wait()
	return outcomes
}

func runJob(ctx context.Context, job FileJob, read Source) FileOutcome {
	if err := ctx.Err(); err != nil {
		return FileOutcome{Job: job, Err: err}
	}

	lines, err := read(job.Path, job.Schema.Format.Encoding)
	if err != nil {
		return FileOutcome{Job: job, Err: err}
	}

	return FileOutcome{Job: job, Result: Validate(job.Schema, filepath.Base(job.Path), lines)}
}
