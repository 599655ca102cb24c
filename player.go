package ishi

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"github.com/ishigo/ishi/board"
	"github.com/ishigo/ishi/infer"
	"github.com/ishigo/ishi/search"
)

// Player is the search orchestrator: it owns a NodePool, an inference
// Processor, a worker pool, and the pause/stop/terminate control plane
// spec.md §4.1 and §5 describe. One long-lived dispatcher goroutine feeds
// the worker pool with one descent per iteration; every externally visible
// mutating call performs pause-drain-mutate-resume so tree mutation and
// concurrent descents never race.
type Player struct {
	mu   sync.Mutex
	cond *sync.Cond

	cfg  Config
	pool *search.NodePool
	proc *infer.Processor
	pw   *ThreadPool
	root *search.Node

	paused     bool
	stopped    bool
	terminated bool
	runnings   int
	poolSize   int

	searchVisits   uint64
	searchPlayouts uint64

	seedCounter uint64

	// histories records the exact board pattern after every real move
	// actually played on the game board, so isSuperkoMove can reject a
	// candidate that would repeat a position the game has already visited.
	// It is a post-search candidate filter, not a legality rule Board
	// itself enforces (see DESIGN.md's superko decision).
	histories map[string]bool
}

// NewPlayer builds a Player over the given models (one inference lane per
// model) and an empty board sized per cfg. Callers own the
// models' lifetime; Player.Terminate shuts down its Processor and ThreadPool
// but never the models themselves.
func NewPlayer(cfg Config, models []infer.Inferencer) (*Player, error) {
	if !cfg.IsValid() {
		return nil, errInvalidConfig{}
	}
	p := &Player{
		cfg:       cfg,
		pool:      search.NewNodePool(4096),
		proc:      infer.NewProcessor(models, cfg.inferConfig()),
		pw:        NewThreadPool(cfg.Threads),
		poolSize:  cfg.Threads,
		stopped:   true,
		histories: make(map[string]bool),
	}
	p.cond = sync.NewCond(&p.mu)
	p.root = p.pool.NewRoot(board.NewBoard(cfg.BoardSize, cfg.BoardSize, cfg.Rule, cfg.Komi, cfg.Superko))
	go p.dispatch()
	return p, nil
}

type errInvalidConfig struct{}

func (errInvalidConfig) Error() string { return "ishi: invalid Config" }

// newRNG hands out a private, unshared random source to each descent, so
// concurrent workers never race on a single *rand.Rand the way a naive
// shared generator would.
func (p *Player) newRNG() *rand.Rand {
	seed := time.Now().UnixNano() + int64(atomic.AddUint64(&p.seedCounter, 1))
	return rand.New(rand.NewSource(seed))
}

// pauseDrain blocks new dispatch, waits for every in-flight descent to
// finish, and returns with the Player mutex held; the caller must call
// resume (typically via defer) once it has finished mutating.
func (p *Player) pauseDrain() {
	p.mu.Lock()
	p.paused = true
	for p.runnings > 0 {
		p.cond.Wait()
	}
}

// resume clears paused, wakes the dispatcher, and releases the mutex
// pauseDrain acquired.
func (p *Player) resume() {
	p.paused = false
	p.cond.Broadcast()
	p.mu.Unlock()
}

// dispatch is the long-lived controller goroutine: it waits until the
// Player is runnable, then submits exactly one descent per wakeup,
// mirroring spec.md's condition-variable dispatcher.
func (p *Player) dispatch() {
	for {
		p.mu.Lock()
		for !p.terminated && (p.stopped || p.paused || p.runnings >= p.poolSize) {
			p.cond.Wait()
		}
		if p.terminated {
			p.mu.Unlock()
			return
		}
		p.searchVisits++
		p.runnings++
		root := p.root
		cfg := p.cfg.searchConfig()
		p.mu.Unlock()

		p.pw.Go(func() { p.runDescent(root, cfg) })
	}
}

// runDescent walks one path from root to a leaf, backpropagates, and
// updates the aggregate counters the dispatcher and waitEvaluation read.
func (p *Player) runDescent(root *search.Node, cfg search.Config) {
	path, res, err := search.Descend(context.Background(), p.proc, p.pool, root.ID(), cfg, p.newRNG())
	playouts := 0
	if err == nil {
		search.Backpropagate(p.pool, path, res)
		if res.Playouts > 0 {
			playouts = res.Playouts
		}
	}

	p.mu.Lock()
	p.runnings--
	if playouts > 0 {
		p.searchPlayouts += uint64(playouts)
	}
	p.cond.Broadcast()
	p.mu.Unlock()
}

// primeRoot ensures the root has been evaluated at least once, so the
// no-search-yet fallbacks (getCandidates, getRandom) have a raw policy
// list to draw from. It is a no-op once the root already carries policies.
func (p *Player) primeRoot() error {
	if len(p.root.Policies()) > 0 || p.root.Playouts() > 0 {
		return nil
	}
	if _, err := p.root.Step(context.Background(), p.proc, search.DefaultConfig(), p.newRNG()); err != nil {
		return err
	}
	p.searchPlayouts++
	return nil
}

// Initialize drops the current tree and allocates a fresh root at an empty
// board, preserving cfg.
func (p *Player) Initialize() {
	p.pauseDrain()
	defer p.resume()

	old := p.root
	bd := board.NewBoard(p.cfg.BoardSize, p.cfg.BoardSize, p.cfg.Rule, p.cfg.Komi, p.cfg.Superko)
	p.root = p.pool.NewRoot(bd)
	p.pool.ReleaseSubtree(old.ID(), p.root.ID())
	p.searchVisits = 0
	p.searchPlayouts = 0
	p.histories = make(map[string]bool)
}

// Play descends to (or materializes) the child for (x, y), promotes it to
// the new root, and returns the number of stones it captured, or -1 if the
// move was illegal.
func (p *Player) Play(x, y int) int {
	p.pauseDrain()
	defer p.resume()

	childID := p.root.FindChild(x, y)
	var child *search.Node
	if childID != search.Nil {
		child = p.pool.Get(childID)
	} else {
		var err error
		child, err = p.pool.NewChild(p.root, x, y, 0)
		if err != nil {
			return -1
		}
	}

	old := p.root
	p.root = child
	p.pool.ReleaseSubtree(old.ID(), child.ID())
	p.searchVisits = uint64(child.Visits())
	p.searchPlayouts = uint64(child.Playouts())
	p.histories[child.Board().PatternBits().Key()] = true
	return child.Captured()
}

// isSuperkoMove reports whether playing color at (x, y) on a copy of bd
// would recreate a board pattern this game has already passed through.
// This mirrors the original engine's own candidate filter: superko is
// checked against the played-game history after the fact, not folded into
// Board's own legality check (see DESIGN.md's superko decision).
func (p *Player) isSuperkoMove(bd *board.Board, x, y int, color board.Color) bool {
	clone := bd.Clone()
	if _, err := clone.Play(x, y, color); err != nil {
		return false
	}
	return p.histories[clone.PatternBits().Key()]
}

// passCandidate builds the synthetic pass candidate GetPass returns; it
// never touches p.mu itself so GetCandidates can fall back to it without
// re-entering pauseDrain.
func (p *Player) passCandidate() Candidate {
	nextColor := p.root.Color().Opposite()
	value := p.root.MeanValue() * float32(nextColor)
	return Candidate{X: -1, Y: -1, Color: nextColor, Value: value, LCB: value}
}

// GetPass returns a synthetic pass candidate carrying the current root
// value, from the perspective of the side to move.
func (p *Player) GetPass() []Candidate {
	p.pauseDrain()
	defer p.resume()

	return []Candidate{p.passCandidate()}
}

// GetRandom samples one legal move from the root's raw policy distribution
// raised to 1/max(temperature, 0.1). It never runs a search descent; it
// only primes the root's own evaluation if that has not happened yet.
func (p *Player) GetRandom(temperature float32) []Candidate {
	p.pauseDrain()
	defer p.resume()

	if err := p.primeRoot(); err != nil {
		return nil
	}
	policies := p.root.Policies()
	if len(policies) == 0 {
		return nil
	}

	t := temperature
	if t < 0.1 {
		t = 0.1
	}
	power := 1 / t

	weights := make([]float32, len(policies))
	var total float32
	for i, pol := range policies {
		w := math32.Pow(pol.Prior, power)
		weights[i] = w
		total += w
	}

	target := p.newRNG().Float32() * total
	chosen := policies[len(policies)-1]
	var cum float32
	for i, w := range weights {
		cum += w
		if target <= cum {
			chosen = policies[i]
			break
		}
	}

	nextColor := p.root.Color().Opposite()
	if p.cfg.Superko && p.isSuperkoMove(p.root.Board(), chosen.X, chosen.Y, nextColor) {
		return []Candidate{p.passCandidate()}
	}
	return []Candidate{{X: chosen.X, Y: chosen.Y, Color: nextColor, Policy: chosen.Prior}}
}

// StartEvaluation switches the selection-rule tuning for this episode and
// unpauses the dispatcher. searchVisits/searchPlayouts seed from the
// current root's own statistics, so a pondered position carries its work
// forward instead of resetting.
func (p *Player) StartEvaluation(equally, useUcb1 bool, width int, temperature, noise float32) {
	p.pauseDrain()

	p.cfg.Equally = equally
	p.cfg.UseUcb1 = useUcb1
	p.cfg.Width = width
	p.cfg.Temperature = temperature
	p.cfg.Randomness = noise

	p.searchVisits = uint64(p.root.Visits())
	p.searchPlayouts = uint64(p.root.Playouts())
	p.stopped = false

	p.resume()
}

// WaitEvaluation blocks until both searchVisits >= targetVisits and
// searchPlayouts >= targetPlayouts, or until timelimitS seconds elapse
// (0 disables the time bound). If stop is true, search is transitioned to
// stopped before returning.
func (p *Player) WaitEvaluation(targetVisits, targetPlayouts int, timelimitS float64, stop bool) {
	var deadline time.Time
	hasDeadline := timelimitS > 0
	if hasDeadline {
		deadline = time.Now().Add(time.Duration(timelimitS * float64(time.Second)))
		timer := time.AfterFunc(time.Until(deadline), func() {
			p.mu.Lock()
			p.cond.Broadcast()
			p.mu.Unlock()
		})
		defer timer.Stop()
	}

	p.mu.Lock()
	for uint64(targetVisits) > p.searchVisits || uint64(targetPlayouts) > p.searchPlayouts {
		if hasDeadline && !time.Now().Before(deadline) {
			break
		}
		p.cond.Wait()
	}
	if stop {
		p.stopped = true
	}
	p.mu.Unlock()

	if stop {
		p.cond.Broadcast()
	}
}

// GetCandidates returns the root's children with their statistics; if the
// root has not been expanded yet, it returns a single synthetic candidate
// for the raw policy network's best move.
func (p *Player) GetCandidates() []Candidate {
	p.pauseDrain()
	defer p.resume()

	if !p.root.HasChildren() {
		if err := p.primeRoot(); err != nil {
			return nil
		}
		policies := p.root.Policies()
		if len(policies) == 0 {
			return nil
		}
		best := policies[0]
		for _, pol := range policies[1:] {
			if pol.Prior > best.Prior {
				best = pol
			}
		}
		nextColor := p.root.Color().Opposite()
		if p.cfg.Superko && p.isSuperkoMove(p.root.Board(), best.X, best.Y, nextColor) {
			return []Candidate{p.passCandidate()}
		}
		value := p.root.EvaluatorValue()
		return []Candidate{{
			X: best.X, Y: best.Y,
			Color:  nextColor,
			Policy: best.Prior,
			Value:  value,
			LCB:    value,
		}}
	}

	children := p.root.Children()
	out := make([]Candidate, 0, len(children))
	for _, c := range children {
		if p.cfg.Superko && p.isSuperkoMove(p.root.Board(), c.Move().X, c.Move().Y, c.Color()) {
			continue
		}
		out = append(out, Candidate{
			X:          c.Move().X,
			Y:          c.Move().Y,
			Color:      c.Color(),
			Visits:     c.Visits(),
			Playouts:   c.Playouts(),
			Policy:     c.Prior(),
			Value:      c.MeanValue() * float32(c.Color()),
			LCB:        c.LCB(),
			Variations: c.GetVariations(p.pool),
		})
	}
	if len(out) == 0 && len(children) > 0 {
		return []Candidate{p.passCandidate()}
	}
	return out
}

// BestCandidate applies criterion to getCandidates' result: by visits (most
// robustly sampled child) or by LCB (highest lower-confidence-bound). This
// is the one piece of "which move to actually play" policy the core
// implements itself, per SPEC_FULL's supplemented §6.1; everything else is
// left to the game controller.
func (p *Player) BestCandidate(criterion Criterion) (Candidate, bool) {
	candidates := p.GetCandidates()
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		switch criterion {
		case CriterionLCB:
			if c.LCB > best.LCB {
				best = c
			}
		default:
			if c.Visits > best.Visits {
				best = c
			}
		}
	}
	return best, true
}

// SearchVisits and SearchPlayouts report the current episode's cumulative
// counters, mainly for tests and for a controller printing search progress.
func (p *Player) SearchVisits() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searchVisits
}

func (p *Player) SearchPlayouts() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searchPlayouts
}

// Terminate stops the dispatcher goroutine and shuts down the inference
// Processor and ThreadPool. The Player must not be used afterward.
func (p *Player) Terminate() {
	p.mu.Lock()
	p.terminated = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.pw.Close()
	p.proc.Shutdown()
}
