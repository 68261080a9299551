package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RenewalFacade exposes the subset of application functionality required by the worker.
type RenewalFacade interface {
	RenewDue(ctx context.Context, limit int) (int, error)
}

// RenewalProcessor polls for memberships past their renewal date and
// processes them in batches. Several workers may drain batches at once;
// the storage layer keeps them from claiming the same members.
type RenewalProcessor struct {
	facade       RenewalFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	wake   chan struct{}
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewRenewalProcessor constructs the renewal worker pool.
func NewRenewalProcessor(facade RenewalFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *RenewalProcessor {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &RenewalProcessor{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		wake:         make(chan struct{}, workers),
	}
}

// Start launches background processing.
func (p *RenewalProcessor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *RenewalProcessor) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *RenewalProcessor) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.wake)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i := 0; i < p.workers; i++ {
				select {
				case <-ctx.Done():
					return
				case p.wake <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (p *RenewalProcessor) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-p.wake:
			if !ok {
				return
			}
			p.drain(ctx)
		}
	}
}

// drain processes batches until no due memberships remain.
func (p *RenewalProcessor) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		renewed, err := p.facade.RenewDue(ctx, p.batchSize)
		if err != nil {
			p.logger.Error("renewal batch failed", slog.String("error", err.Error()))
			return
		}
		if renewed > 0 {
			p.logger.Info("memberships renewed", slog.Int("count", renewed))
		}
		if renewed < p.batchSize {
			return
		}
	}
}
