package ishi

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ishigo/ishi/board"
	"github.com/ishigo/ishi/infer"
	"github.com/stretchr/testify/require"
)

func newTestPlayer(t *testing.T) *Player {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BoardSize = 9
	cfg.Threads = 2
	cfg.BatchSize = 8
	p, err := NewPlayer(cfg, []infer.Inferencer{DummyInferencer{Value: 0}})
	require.NoError(t, err)
	t.Cleanup(p.Terminate)
	return p
}

// ignoreVariations lets tests compare Candidate slices without pinning down
// the exact principal-variation path, which depends on search timing.
var ignoreVariations = cmpopts.IgnoreFields(Candidate{}, "Variations")

func TestInitializeYieldsSingleCandidate(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()

	candidates := p.GetCandidates()
	require.Len(t, candidates, 1)
	require.Equal(t, board.Black, candidates[0].Color)
}

func TestPlayFlipsCandidateColor(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()

	captured := p.Play(4, 4)
	require.GreaterOrEqual(t, captured, 0)

	candidates := p.GetCandidates()
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		require.Equal(t, board.White, c.Color)
		require.GreaterOrEqual(t, c.X, 0)
		require.Less(t, c.X, 9)
		require.GreaterOrEqual(t, c.Y, 0)
		require.Less(t, c.Y, 9)
	}
}

func TestIllegalPlayReturnsNegativeOne(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()

	require.GreaterOrEqual(t, p.Play(4, 4), 0)
	require.Equal(t, -1, p.Play(4, 4))
}

func TestStartEvaluationReachesTargetVisits(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()

	const target = 50
	p.StartEvaluation(false, false, 0, 1, 0)
	p.WaitEvaluation(target, target, 10, true)

	require.GreaterOrEqual(t, p.SearchVisits(), uint64(target))
	require.GreaterOrEqual(t, p.SearchPlayouts(), uint64(target))

	var childVisits uint64
	for _, c := range p.GetCandidates() {
		childVisits += uint64(c.Visits)
	}
	require.Equal(t, uint64(p.root.Visits())-1, childVisits)
}

func TestWaitEvaluationHonorsTimeoutAndInitializeDoesNotBlock(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()

	p.StartEvaluation(false, false, 0, 1, 0)
	time.Sleep(100 * time.Millisecond)

	start := time.Now()
	p.WaitEvaluation(1<<30, 1<<30, 0.2, true)
	require.Less(t, time.Since(start), 500*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Initialize()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Initialize blocked after a stopped WaitEvaluation")
	}
}

func TestGetPassMatchesFreshRootValue(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()

	want := []Candidate{{X: -1, Y: -1, Color: board.Black, Value: 0}}
	got := p.GetPass()

	if diff := cmp.Diff(want, got, ignoreVariations); diff != "" {
		t.Fatalf("GetPass() mismatch (-want +got):\n%s", diff)
	}
}

func TestBestCandidateByVisits(t *testing.T) {
	p := newTestPlayer(t)
	p.Initialize()
	p.StartEvaluation(false, false, 0, 1, 0)
	p.WaitEvaluation(80, 80, 10, true)

	best, ok := p.BestCandidate(CriterionVisits)
	require.True(t, ok)

	for _, c := range p.GetCandidates() {
		require.LessOrEqual(t, c.Visits, best.Visits)
	}
}
