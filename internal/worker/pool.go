// Package worker runs tile renders on a fixed number of goroutines.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/noisegraph/internal/tile"
)

// Generator renders one tile. This matches pipeline.Generator.Generate.
// skipped reports a tile that already existed and was left alone.
type Generator interface {
	Generate(ctx context.Context, coords tile.Coords, force bool, suffix string) (path string, skipped bool, err error)
}

// Task represents a single tile generation task.
type Task struct {
	Coords tile.Coords
	Force  bool
	Suffix string
}

// Result represents the outcome of a tile generation task.
type Result struct {
	Task    Task
	Path    string
	Skipped bool
	Err     error
	Elapsed time.Duration
}

// Stats is a snapshot of a running batch.
type Stats struct {
	Completed int
	Total     int
	Failed    int
	Skipped   int
}

// ProgressFunc is called after each task completes, from a single
// goroutine.
type ProgressFunc func(Stats)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Generator  Generator
	OnProgress ProgressFunc
}

// Pool manages parallel tile generation.
type Pool struct {
	workers    int
	generator  Generator
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		generator:  cfg.Generator,
		onProgress: cfg.OnProgress,
	}
}

type indexed struct {
	i    int
	task Task
}

type indexedResult struct {
	i   int
	res Result
}

// Run executes all tasks and returns one result per task, in task order.
// After ctx is cancelled the remaining tasks are not rendered; their
// results carry ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	// both channels hold every task, so neither side ever blocks on the other
	taskCh := make(chan indexed, len(tasks))
	resultCh := make(chan indexedResult, len(tasks))
	for i, task := range tasks {
		taskCh <- indexed{i: i, task: task}
	}
	close(taskCh)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	results := make([]Result, len(tasks))
	done := make(chan struct{})
	go func() {
		defer close(done)
		stats := Stats{Total: len(tasks)}
		for r := range resultCh {
			results[r.i] = r.res

			stats.Completed++
			switch {
			case r.res.Err != nil:
				stats.Failed++
			case r.res.Skipped:
				stats.Skipped++
			}
			if p.onProgress != nil {
				p.onProgress(stats)
			}
		}
	}()

	wg.Wait()
	close(resultCh)
	<-done

	return results
}

func (p *Pool) worker(ctx context.Context, tasks <-chan indexed, results chan<- indexedResult) {
	for t := range tasks {
		if err := ctx.Err(); err != nil {
			results <- indexedResult{i: t.i, res: Result{Task: t.task, Err: err}}
			continue
		}

		start := time.Now()
		path, skipped, err := p.generator.Generate(ctx, t.task.Coords, t.task.Force, t.task.Suffix)

		results <- indexedResult{i: t.i, res: Result{
			Task:    t.task,
			Path:    path,
			Skipped: skipped,
			Err:     err,
			Elapsed: time.Since(start),
		}}
	}
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
