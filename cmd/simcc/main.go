// Command simcc runs headless self-play games against the bot driver, reporting
// aggregate win/draw counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/engine"
	"github.com/commanderchess/engine/pkg/engine/enginecfg"
	"github.com/seekerror/logw"
)

var (
	sim         = flag.Bool("sim", false, "Run the simulator (required)")
	games       = flag.Int("games", 10, "Number of games to simulate")
	seed        = flag.Int64("seed", 1, "Base random seed")
	depth       = flag.Int("depth", 6, "Max search depth per move")
	timeMs      = flag.Int("time_ms", 3000, "Time budget per move, in milliseconds")
	maxPlies    = flag.Int("max_plies", 400, "Maximum plies before a game is declared a draw")
	start       = flag.String("start", "alternate", "Opening handling: alternate, fixed (Red moves first in every game)")
	evalBackend = flag.String("eval_backend", "cpu", "Evaluator backend: cpu, webgpu, auto")
	useMCTS     = flag.Bool("mcts", false, "Use the MCTS+alphabeta root driver instead of alpha-beta iterative deepening")
	mode        = flag.String("mode", "full", "Win-condition mode: full, marine, air, land")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: simcc --sim [options]

simcc runs headless Commander Chess self-play games and reports aggregate results.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	if !*sim {
		flag.Usage()
		logw.Exitf(ctx, "--sim is required")
	}

	_ = enginecfg.ParseEvalBackend(*evalBackend) // parsed and discarded: games use the default evaluator

	m := board.ParseMode(*mode)
	budget := enginecfg.Budget{MaxDepth: uint(*depth), TimeLimit: time.Duration(*timeMs) * time.Millisecond}

	difficulty := enginecfg.Medium
	if *useMCTS {
		difficulty = enginecfg.Hard
	}

	begin := time.Now()
	var redWins, blueWins, draws int

	for i := 0; i < *games; i++ {
		g := engine.NewGame(ctx, m, difficulty,
			engine.WithZobristSeed(*seed+int64(i)),
			engine.WithBudget(budget),
		)

		// Every game starts with Red to move. With "alternate", each odd-numbered game
		// has Red's first move chosen by BotMove here, before playOut, so that move is
		// not counted against max_plies; the other games go straight to playOut.
		if *start == "alternate" && i%2 == 1 {
			if m := g.BotMove(ctx); m.IsNoMove() {
				draws++
				continue
			}
		}

		switch playOut(ctx, g, *maxPlies) {
		case board.RedWins:
			redWins++
		case board.BlueWins:
			blueWins++
		default:
			draws++
		}

		if i%10 == 0 {
			logw.Infof(ctx, "Simulated %v/%v games", i+1, *games)
		}
	}

	elapsed := time.Since(begin)
	fmt.Printf("RESULTS: red_wins=%v blue_wins=%v draws=%v\n", redWins, blueWins, draws)
	fmt.Printf("total seconds: %.2f\n", elapsed.Seconds())
}

// playOut runs the bot against itself until the game ends or maxPlies is exceeded,
// which counts as a draw.
func playOut(ctx context.Context, g *engine.GameState, maxPlies int) board.Outcome {
	for ply := 0; ply < maxPlies; ply++ {
		if m := g.BotMove(ctx); m.IsNoMove() {
			return board.DrawOutcome
		}
		if outcome := g.Outcome(); outcome != board.Undecided {
			return outcome
		}
	}
	return board.DrawOutcome
}
