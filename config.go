package ishi

import (
	"github.com/ishigo/ishi/board"
	"github.com/ishigo/ishi/infer"
	"github.com/ishigo/ishi/search"
)

// Criterion selects how BestCandidate picks the final move from
// getCandidates: by lower-confidence-bound (the "robust child" convention)
// or by raw visit count.
type Criterion int

const (
	CriterionVisits Criterion = iota
	CriterionLCB
)

// Config carries every recognized Player option from spec.md §6: board
// setup, search termination targets, selection-rule tuning, and the
// inference/threading resources a Player needs to run. It plays the role
// mcts.Config and dual.Config play in the teacher, folded into one struct
// since a Player owns both the tree and the inference boundary.
type Config struct {
	// Board setup.
	BoardSize int
	Rule      board.Rule
	Komi      float32
	Superko   bool

	// Search termination (AND-combined in waitEvaluation).
	Visits      int
	Playouts    int
	TimeLimitS  float64
	Ponder      bool

	// Selection-rule tuning, forwarded into search.Config at the root of
	// each descent.
	UseUcb1      bool
	Equally      bool
	Width        int
	Temperature  float32
	Randomness   float32
	EvalLeafOnly bool

	// External-policy knobs the core just stores and exposes; the game
	// controller decides what to do with them.
	Criterion Criterion
	Resign    float32
	MinScore  float32
	MinTurn   int
	InitTurn  int

	// Resources.
	Threads   int
	BatchSize int
	Devices   int
	FP16      bool
}

// DefaultConfig returns a 9x9 Chinese-rules configuration with modest
// search resources, suitable for cmd/bench and tests.
func DefaultConfig() Config {
	return Config{
		BoardSize:   9,
		Rule:        board.RuleChinese,
		Komi:        7.5,
		Superko:     true,
		Visits:      200,
		Playouts:    200,
		TimeLimitS:  60,
		Temperature: 1,
		Randomness:  0,
		Width:       0,
		Criterion:   CriterionVisits,
		Threads:     4,
		BatchSize:   16,
		Devices:     1,
	}
}

// IsValid reports whether c can drive a Player.
func (c Config) IsValid() bool {
	return c.BoardSize > 0 &&
		c.Temperature > 0 &&
		c.Randomness >= 0 &&
		c.Width >= 0 &&
		c.Threads > 0 &&
		c.BatchSize > 0 &&
		c.Devices > 0
}

// searchConfig projects the root-only selection settings into a
// search.Config for one descent.
func (c Config) searchConfig() search.Config {
	return search.Config{
		Equally:      c.Equally,
		UseUcb1:      c.UseUcb1,
		Width:        c.Width,
		Temperature:  c.Temperature,
		Noise:        c.Randomness,
		EvalLeafOnly: c.EvalLeafOnly,
	}
}

// inferConfig projects the resource settings into an infer.Config sized for
// the board's own feature tensor.
func (c Config) inferConfig() infer.Config {
	return infer.Config{
		BatchSize:        c.BatchSize,
		Devices:          c.Devices,
		ThreadsPerDevice: 1,
		InputSize:        board.ModelInputSize,
		OutputSize:       infer.ModelOutputSize,
	}
}
