package infer

import (
	"context"
	"log"
	"sync"

	"github.com/donyori/gorecover"
)

// Inferencer is the model boundary this package drives: a synchronous
// forward pass over a row-major batch of inputs producing a row-major batch
// of outputs. Implementations must be safe to call repeatedly from the
// single device-worker goroutine that owns them; they need not be
// reentrant across goroutines, since each Executor only ever calls its own
// model from its own worker.
type Inferencer interface {
	Forward(inputs []float32, batch int) ([]float32, error)
}

// Executor owns one model instance on one device and exactly one
// device-worker goroutine. Callers queue a Job via execute and block on its
// completion; the worker drains the queue in batches of up to batchSize,
// concatenates inputs, invokes the model once, and scatters outputs back.
type Executor struct {
	model      Inferencer
	batchSize  int
	inputSize  int
	outputSize int

	mu        sync.Mutex
	cond      *sync.Cond
	queue     []*Job
	waiting   int
	reserved  int
	terminated bool

	lumberjack
}

// NewExecutor starts the device-worker goroutine and returns the executor.
func NewExecutor(model Inferencer, batchSize, inputSize, outputSize int) *Executor {
	e := &Executor{
		model:      model,
		batchSize:  batchSize,
		inputSize:  inputSize,
		outputSize: outputSize,
		lumberjack: makeLumberJack(),
	}
	e.cond = sync.NewCond(&e.mu)
	go e.lumberjack.start()
	go e.run()
	return e
}

func (e *Executor) waitingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waiting
}

func (e *Executor) reservedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reserved
}

// reserve pre-adds n to the executor's reservedCount, so a concurrent
// dispatcher choosing the least-loaded executor doesn't pile every thread
// onto the same momentarily-empty lane.
func (e *Executor) reserve(n int) {
	e.mu.Lock()
	e.reserved += n
	e.mu.Unlock()
}

// execute queues a Job of n rows and blocks until it completes or ctx is
// done. n must equal len(inputs)/inputSize; outputs must have room for
// n*outputSize floats.
func (e *Executor) execute(ctx context.Context, inputs, outputs []float32, n int) error {
	job := newJob(inputs, outputs, n)

	e.mu.Lock()
	if e.reserved >= n {
		e.reserved -= n
	} else {
		e.reserved = 0
	}
	e.waiting += n
	e.queue = append(e.queue, job)
	e.cond.Signal()
	e.mu.Unlock()

	select {
	case <-job.done:
		return job.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the device-worker loop: block for work, batch, forward, scatter.
func (e *Executor) run() {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.terminated {
			e.cond.Wait()
		}
		if len(e.queue) == 0 && e.terminated {
			e.mu.Unlock()
			return
		}

		var batch []*Job
		size := 0
		for len(e.queue) > 0 && size < e.batchSize {
			j := e.queue[0]
			e.queue = e.queue[1:]
			batch = append(batch, j)
			size += j.size
			e.waiting -= j.size
		}
		e.mu.Unlock()

		e.forward(batch, size)
	}
}

// forward concatenates the batch's inputs, calls the model once (panic-safe
// via gorecover, since a misbehaving model must not take the worker
// goroutine down with it), and scatters results back to each Job. A forward
// error or panic is logged and every Job in the batch is completed with
// zero-valued outputs: a neutral policy/value rather than a retry.
func (e *Executor) forward(batch []*Job, size int) {
	in := make([]float32, 0, size*e.inputSize)
	for _, j := range batch {
		in = append(in, j.inputs...)
	}

	var out []float32
	recoverErr := gorecover.Recover(func() {
		var err error
		out, err = e.model.Forward(in, size)
		if err != nil {
			log.Printf("model forward error: %v", err)
			out = nil
		}
	})
	if recoverErr != nil {
		log.Printf("model forward panic: %v", recoverErr)
		out = nil
	}
	if out == nil {
		out = make([]float32, size*e.outputSize)
	}

	offset := 0
	for _, j := range batch {
		n := j.size * e.outputSize
		copy(j.outputs, out[offset:offset+n])
		offset += n
		j.finish(nil)
	}
}

// Shutdown terminates the worker goroutine; every still-queued Job is
// notified (with zero-valued outputs) so its caller returns instead of
// blocking forever.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	e.terminated = true
	pending := e.queue
	e.queue = nil
	e.cond.Broadcast()
	e.mu.Unlock()

	for _, j := range pending {
		for i := range j.outputs {
			j.outputs[i] = 0
		}
		j.finish(nil)
	}
}
