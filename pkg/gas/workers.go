package gas

import (
	"context"
	"fmt"
	"sync"

	chamber "github.com/next-exp/wirechamber_go/pkg"
)

type fieldJob struct {
	index int
	field float64
}

type fieldResult struct {
	index int
	entry chamber.TransportEntry
	err   error
}

func worker(id int, mixture []weighted, p float64, jobs <-chan fieldJob, results chan<- fieldResult) {
	for job := range jobs {
		results <- evaluate(id, mixture, p, job)
	}
}

func evaluate(id int, mixture []weighted, p float64, job fieldJob) (result fieldResult) {
	defer func() {
		if r := recover(); r != nil {
			result = fieldResult{index: job.index, err: fmt.Errorf("worker %d recovered from panic at %g V/cm: %v", id, job.field, r)}
		}
	}()
	return fieldResult{index: job.index, entry: transportAt(mixture, job.field, p)}
}

func sendFieldsToWorkers(ctx context.Context, fields []float64, jobs chan<- fieldJob) {
	defer close(jobs)
	for i, e := range fields {
		select {
		case <-ctx.Done():
			return
		case jobs <- fieldJob{index: i, field: e}:
		}
	}
}

// runWorkers evaluates the transport coefficients at every field with a pool
// of workers. Entries keep the order of fields.
func runWorkers(ctx context.Context, mixture []weighted, p float64, fields []float64, workers int) ([]chamber.TransportEntry, error) {
	workers = max(1, min(workers, len(fields)))
	jobs := make(chan fieldJob, workers)
	results := make(chan fieldResult, len(fields))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			worker(id, mixture, p, jobs, results)
		}(w)
	}
	go sendFieldsToWorkers(ctx, fields, jobs)
	go func() {
		wg.Wait()
		close(results)
	}()

	entries := make([]chamber.TransportEntry, len(fields))
	var err error
	for r := range results {
		if r.err != nil && err == nil {
			err = r.err
		}
		entries[r.index] = r.entry
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
