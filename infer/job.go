package infer

// Job is a single queued forward-pass request: a row-major batch of inputs
// awaiting the matching outputs, with a channel standing in for the
// completion condvar described by the batching design this package
// implements.
type Job struct {
	inputs  []float32
	outputs []float32
	size    int // number of rows packed into inputs
	err     error
	done    chan struct{}
}

func newJob(inputs, outputs []float32, size int) *Job {
	return &Job{inputs: inputs, outputs: outputs, size: size, done: make(chan struct{})}
}

func (j *Job) finish(err error) {
	j.err = err
	close(j.done)
}
