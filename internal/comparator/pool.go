package comparator

import (
	"context"
	"runtime"
	"sync"

	"circuit-validator/internal/strategy"
	"circuit-validator/internal/validation"
)

// strategyPool evaluates independent strategies in parallel. Each strategy's
// windows are self-contained, so the only shared step is collecting results,
// which are reassembled into the caller's input order before aggregation.
type strategyPool struct {
	workerCount int
	comparator  *Comparator
}

type strategyJob struct {
	index    int
	strategy strategy.Strategy
}

type strategyResult struct {
	index   int
	results *validation.Results
	err     error
}

func newStrategyPool(workerCount int, comparator *Comparator) *strategyPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &strategyPool{
		workerCount: workerCount,
		comparator:  comparator,
	}
}

// run processes every strategy and returns results aligned with the input
// order. The first error cancels the remaining work.
func (p *strategyPool) run(ctx context.Context, strategies []strategy.Strategy, windows []validation.Window) ([]*validation.Results, error) {
	workers := p.workerCount
	if workers > len(strategies) {
		workers = len(strategies)
	}
	if workers == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobQueue := make(chan strategyJob, len(strategies))
	resultQueue := make(chan strategyResult, len(strategies))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobQueue {
				if ctx.Err() != nil {
					return
				}
				results, err := p.comparator.runOne(ctx, job.strategy, windows)
				select {
				case resultQueue <- strategyResult{index: job.index, results: results, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for i, s := range strategies {
		jobQueue <- strategyJob{index: i, strategy: s}
	}
	close(jobQueue)

	// Collect-then-aggregate: results land here unordered and are slotted
	// back into input order
	ordered := make([]*validation.Results, len(strategies))
	var firstErr error
	for i := 0; i < len(strategies); i++ {
		select {
		case res := <-resultQueue:
			if res.err != nil && firstErr == nil {
				firstErr = res.err
				cancel()
			}
			ordered[res.index] = res.results
		case <-ctx.Done():
			if firstErr == nil {
				firstErr = ctx.Err()
			}
			i = len(strategies)
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return ordered, nil
}
