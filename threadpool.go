// Package ishi is the top-level orchestrator: Player wires a search.NodePool
// and an infer.Processor together behind the pause-drain-mutate-resume
// control plane a game controller drives via play/getCandidates/
// startEvaluation.
package ishi

import (
	"sync"

	"github.com/donyori/goctpf"
	"github.com/donyori/goctpf/idtpf/dfw"
	"github.com/donyori/goctpf/prefab"
	"github.com/donyori/gorecover"
)

// ThreadPool is the general task executor Player submits search descents
// to. It wraps donyori/goctpf's dfw worker framework the way the gomoku
// example wires its own task queues, generalized from four fixed,
// game-specific handlers to a single func()-shaped task so any caller can
// submit arbitrary work.
type ThreadPool struct {
	inputChan chan<- interface{}
	doneChan  <-chan struct{}
}

// poolTask is one unit of submitted work: a thunk and the WaitGroup its
// submitter blocks on for completion.
type poolTask struct {
	fn   func()
	done *sync.WaitGroup
}

// NewThreadPool starts size worker goroutines and returns the pool. size is
// clamped to at least 1.
func NewThreadPool(size int) *ThreadPool {
	if size < 1 {
		size = 1
	}
	input := make(chan interface{}, size*2)
	p := &ThreadPool{inputChan: input}
	p.doneChan = dfw.StartEx(prefab.QueueTaskManagerMaker, p.handler, nil,
		nil, goctpf.WorkerSettings{Number: size}, input, nil)
	return p
}

// handler runs one poolTask, recovering any panic so a misbehaving search
// task cannot take a worker goroutine down with it. Always returns nil,
// false, so just use return.
func (p *ThreadPool) handler(workerNo int, task interface{},
	errBuf *[]error) (newTasks []interface{}, doesExit bool) {
	t := task.(*poolTask)
	defer t.done.Done()
	if err := gorecover.Recover(t.fn); err != nil {
		*errBuf = append(*errBuf, err)
	}
	return
}

// Go submits fn for asynchronous execution and returns a WaitGroup the
// caller can Wait on for completion; it never blocks the submitter beyond
// the channel send itself.
func (p *ThreadPool) Go(fn func()) *sync.WaitGroup {
	wg := &sync.WaitGroup{}
	wg.Add(1)
	p.inputChan <- &poolTask{fn: fn, done: wg}
	return wg
}

// Submit runs fn on a pool worker and blocks until it completes.
func (p *ThreadPool) Submit(fn func()) {
	p.Go(fn).Wait()
}

// Close stops accepting new work and blocks until every worker goroutine
// has exited.
func (p *ThreadPool) Close() {
	close(p.inputChan)
	<-p.doneChan
}
