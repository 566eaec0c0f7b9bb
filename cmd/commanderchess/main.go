package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/engine"
	"github.com/commanderchess/engine/pkg/engine/console"
	"github.com/commanderchess/engine/pkg/engine/enginecfg"
	"github.com/seekerror/logw"
)

var (
	mode       = flag.String("mode", "full", "Win-condition mode: full, marine, air, land")
	difficulty = flag.String("difficulty", "medium", "Bot difficulty: easy, medium, hard")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: commanderchess [options]

commanderchess is an interactive console driver for the Commander Chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	m := board.ParseMode(*mode)
	d := enginecfg.ParseDifficulty(*difficulty)

	g := engine.NewGame(ctx, m, d, engine.WithOverrides(enginecfg.OverridesFromEnv()))

	in := engine.ReadStdinLines(ctx)
	driver, out := console.NewDriver(ctx, g, m, d, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
	logw.Infof(ctx, "commanderchess exiting")
}
