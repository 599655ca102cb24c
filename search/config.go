package search

// Config carries the per-descent settings spec.md calls "root-only": they
// apply at the root of each descent and revert to their zero-noise, no-cap
// PUCB defaults at every deeper level. Descend applies the Config it is
// given at the root and Config.deeper() below it while walking down a
// single path, mirroring mcts.Config's role in the teacher but scoped to one
// descent rather than the whole tree.
type Config struct {
	// Equally selects the "1/(visits+1-0.5*Q)" priority used by the
	// Gumbel-root even-sibling-coverage variant, in place of PUCB/UCB1.
	Equally bool
	// UseUcb1 selects the UCB1 priority in place of PUCB. Ignored when
	// Equally is set.
	UseUcb1 bool
	// Width caps the number of expanded-or-in-flight children per node; 0
	// means unbounded (limited only by the policy list length).
	Width int
	// Temperature sharpens (<1) or flattens (>1) the expansion priors, via
	// the parent-win-chance-adjusted power spec.md's expansion rule defines.
	// Must be > 0; DefaultConfig uses 1.
	Temperature float32
	// Noise is the scale of the Gumbel/extreme-value multiplicative noise
	// applied to expansion priorities. 0 disables it entirely, and it is
	// force-disabled whenever a parent has 4 or fewer candidates regardless
	// of this setting.
	Noise float32
	// EvalLeafOnly instructs the descent to cancel the value it
	// speculatively contributed to ancestors when a node's first child is
	// born, so only true leaves end up contributing to Q estimates.
	EvalLeafOnly bool
}

// DefaultConfig is the deeper-than-root configuration spec.md §4.3 mandates:
// plain PUCB, no width cap, no sharpening, no noise.
func DefaultConfig() Config {
	return Config{Temperature: 1}
}

// IsValid reports whether c can drive a descent.
func (c Config) IsValid() bool {
	return c.Temperature > 0 && c.Noise >= 0 && c.Width >= 0
}

// deeper returns the configuration to use below the root of a descent:
// equally, useUcb1, width and noise are root-only, so they reset; the
// Evaluator-leaf-only convention is a property of the whole descent and
// carries through unchanged.
func (c Config) deeper() Config {
	return Config{Temperature: 1, EvalLeafOnly: c.EvalLeafOnly}
}
