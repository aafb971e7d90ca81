/*
batch.go - Parallel schedule fan-out across contracts

PURPOSE:
  Scheduling one contract is a pure function, so scheduling many is
  embarrassingly parallel. ScheduleAll fans a batch out over a fixed
  worker pool; one rejected contract does not poison the batch.

SEE ALSO:
  - scheduler.go: the per-contract pipeline each worker runs
*/
package pam

import (
	"context"
	"runtime"
	"sync"

	"github.com/warp/contract-engine/schedule"
)

// BatchResult pairs one contract's schedule (or its rejection) with the
// contract it belongs to. Results keep the input order.
type BatchResult struct {
	ContractID string
	Events     []Event
	Err        error
}

// ScheduleAll schedules every contract in the batch concurrently using a
// pool of the given size (<=0 means GOMAXPROCS). Context cancellation
// stops dispatching new contracts; already-dispatched ones finish.
func (s *Scheduler) ScheduleAll(ctx context.Context, horizon schedule.TimePoint, batch []ContractTerms, workers int) []BatchResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(batch) {
		workers = len(batch)
	}

	results := make([]BatchResult, len(batch))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				terms := batch[i]
				events, err := s.Schedule(horizon, terms)
				results[i] = BatchResult{ContractID: terms.ContractID, Events: events, Err: err}
			}
		}()
	}

	for i := range batch {
		select {
		case <-ctx.Done():
			results[i] = BatchResult{ContractID: batch[i].ContractID, Err: ctx.Err()}
			continue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
