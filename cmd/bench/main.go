// Command bench is a manual wiring smoke-test for the search engine: it
// stands in for the out-of-scope GTP/CLI game controller, driving a Player
// through initialize/startEvaluation/waitEvaluation/getCandidates against a
// DummyInferencer so the whole board+search+infer+Player stack can be
// exercised without a trained model.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ishigo/ishi"
	"github.com/ishigo/ishi/infer"
)

func main() {
	boardSize := flag.Int("size", 9, "board size")
	visits := flag.Int("visits", 400, "target search visits")
	threads := flag.Int("threads", 4, "worker pool size")
	flag.Parse()

	cfg := ishi.DefaultConfig()
	cfg.BoardSize = *boardSize
	cfg.Visits = *visits
	cfg.Playouts = *visits
	cfg.Threads = *threads

	player, err := ishi.NewPlayer(cfg, []infer.Inferencer{ishi.DummyInferencer{Value: 0}})
	if err != nil {
		log.Fatalf("bench: %v", err)
	}
	defer player.Terminate()

	player.Initialize()

	start := time.Now()
	player.StartEvaluation(false, false, 0, 1, 0)
	player.WaitEvaluation(cfg.Visits, cfg.Playouts, 30, true)
	elapsed := time.Since(start)

	best, ok := player.BestCandidate(ishi.CriterionVisits)
	if !ok {
		log.Fatal("bench: no candidates returned")
	}

	fmt.Printf("visits=%d playouts=%d elapsed=%s\n", player.SearchVisits(), player.SearchPlayouts(), elapsed)
	fmt.Printf("best move: (%d,%d) color=%v visits=%d value=%.4f\n", best.X, best.Y, best.Color, best.Visits, best.Value)
}
