package infer

import (
	"context"
	"sync"
)

// Processor owns one Executor per (device, thread) lane and load-balances
// execute calls across them by smallest waitingCount+reservedCount,
// reserving the dispatched size under a Processor-level mutex before
// handing off to the chosen Executor. This is what avoids a thundering herd
// of concurrent search workers all piling onto the same momentarily-idle
// lane.
type Processor struct {
	mu        sync.Mutex
	executors []*Executor
}

// NewProcessor builds a Processor with one Executor per lane, one model
// instance each.
func NewProcessor(models []Inferencer, cfg Config) *Processor {
	p := &Processor{executors: make([]*Executor, len(models))}
	for i, m := range models {
		p.executors[i] = NewExecutor(m, cfg.BatchSize, cfg.InputSize, cfg.OutputSize)
	}
	return p
}

// Execute dispatches one request of n rows to the least-loaded lane and
// blocks until it completes.
func (p *Processor) Execute(ctx context.Context, inputs, outputs []float32, n int) error {
	p.mu.Lock()
	best := p.executors[0]
	bestLoad := best.waitingCount() + best.reservedCount()
	for _, e := range p.executors[1:] {
		load := e.waitingCount() + e.reservedCount()
		if load < bestLoad {
			best, bestLoad = e, load
		}
	}
	best.reserve(n)
	p.mu.Unlock()

	return best.execute(ctx, inputs, outputs, n)
}

// Shutdown terminates every lane; any request still queued anywhere returns
// with zero-valued outputs rather than blocking forever.
func (p *Processor) Shutdown() {
	for _, e := range p.executors {
		e.Shutdown()
	}
}
