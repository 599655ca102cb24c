package infer

// Config configures one inference service: how large a batch each lane
// should accumulate before calling the model forward pass, and the row
// widths. NewProcessor runs one lane per model it is given; Devices and
// ThreadsPerDevice are validated and reported by Lanes but do not change
// how many lanes run. Mirrors the shape of a neural-network serving config
// (K/SharedLayers/BatchSize-style struct) the way the teacher's own
// dualnet.Config does, minus the training-only fields this engine never
// touches.
type Config struct {
	BatchSize        int // target batch size per model forward call
	Devices          int // number of distinct devices (e.g. GPUs)
	ThreadsPerDevice int // device-worker lanes per device

	InputSize  int // MODEL_INPUT_SIZE
	OutputSize int // MODEL_OUTPUT_SIZE
}

// DefaultConfig returns a single-device, single-lane configuration sized
// for the given input/output row widths.
func DefaultConfig(inputSize, outputSize int) Config {
	return Config{
		BatchSize:        16,
		Devices:          1,
		ThreadsPerDevice: 1,
		InputSize:        inputSize,
		OutputSize:       outputSize,
	}
}

// IsValid reports whether the configuration can be used to build a Processor.
func (c Config) IsValid() bool {
	return c.BatchSize >= 1 &&
		c.Devices >= 1 &&
		c.ThreadsPerDevice >= 1 &&
		c.InputSize > 0 &&
		c.OutputSize > 0
}

// Lanes returns the total number of (device, thread) executor lanes.
func (c Config) Lanes() int { return c.Devices * c.ThreadsPerDevice }
