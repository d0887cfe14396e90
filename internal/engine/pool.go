package engine

import (
	"context"

	"github.com/hailam/chessplay/internal/board"
	"golang.org/x/sync/errgroup"
)

// ThreadPool owns the fixed set of Lazy-SMP search workers and fans a
// root position out to all of them, collecting iterative-deepening
// results onto a single channel. Workers share the transposition table
// and SharedHistory but otherwise search independently; the pool only
// coordinates their goroutine lifecycle.
type ThreadPool struct {
	workers []*Worker
}

// NewThreadPool wraps an existing worker slice (owned by Engine, which also
// needs direct access to individual workers for Multi-PV and reset).
func NewThreadPool(workers []*Worker) *ThreadPool {
	return &ThreadPool{workers: workers}
}

// Size returns the number of workers in the pool.
func (tp *ThreadPool) Size() int {
	return len(tp.workers)
}

// Launch starts every worker searching pos up to maxDepth, each reporting
// its iterative-deepening results onto the returned channel. The channel is
// closed once every worker has returned, which callers detect by draining
// until the channel closes or by selecting on the returned done channel.
func (tp *ThreadPool) Launch(ctx context.Context, pos *board.Position, maxDepth int, run func(workerID int, pos *board.Position, maxDepth int, resultCh chan<- WorkerResult)) (resultCh chan WorkerResult, done <-chan struct{}) {
	resultCh = make(chan WorkerResult, len(tp.workers)*maxDepth)
	doneCh := make(chan struct{})

	g, _ := errgroup.WithContext(ctx)
	for i := range tp.workers {
		i := i
		g.Go(func() error {
			run(i, pos, maxDepth, resultCh)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(resultCh)
		close(doneCh)
	}()

	return resultCh, doneCh
}
