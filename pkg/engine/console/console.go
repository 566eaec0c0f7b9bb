// Package console implements an interactive text driver for debugging a GameState:
// a line-channel in, a line-channel out, an AsyncCloser lifetime, and a switch over
// recognized commands with "assume it's a move" as the default case, using this
// engine's (piece id, destination) move shape rather than algebraic notation.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/commanderchess/engine/pkg/board"
	"github.com/commanderchess/engine/pkg/engine"
	"github.com/commanderchess/engine/pkg/engine/enginecfg"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver runs a line-oriented REPL against one GameState: reset/move/show/go/undo,
// plus bare "<pid> <dc> <dr>" as a move shorthand.
type Driver struct {
	iox.AsyncCloser

	g *engine.GameState

	mode       board.Mode
	difficulty enginecfg.Difficulty

	out    chan<- string
	active atomic.Bool // a bot move is in flight
}

func NewDriver(ctx context.Context, g *engine.GameState, mode board.Mode, difficulty enginecfg.Difficulty, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		g:           g,
		mode:        mode,
		difficulty:  difficulty,
		out:         out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.g.Name(), d.g.Author())
	d.printBoard()

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(strings.TrimSpace(line))
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "reset", "r":
				d.g = engine.NewGame(ctx, d.mode, d.difficulty)
				d.printBoard()

			case "undo", "u":
				if err := d.g.TakeBack(ctx); err != nil {
					d.out <- fmt.Sprintf("undo: %v", err)
				}
				d.printBoard()

			case "show", "print", "p":
				d.printBoard()

			case "go", "bot", "g":
				d.active.Store(true)
				m := d.g.BotMove(ctx)
				d.active.Store(false)
				if m.IsNoMove() {
					d.out <- "bot could not find a legal move"
				} else {
					d.out <- fmt.Sprintf("bestmove %v", m)
				}
				d.printBoard()

			case "state":
				d.out <- fmt.Sprintf("%+v", d.g.SerializeState())

			case "quit", "exit", "q":
				return

			case "":
				// ignore empty command

			default:
				// Assume "<pid> <dc> <dr>" (optionally with leading "move").
				fields := args
				if strings.EqualFold(cmd, "move") {
					// consumed as the command name
				} else {
					fields = append([]string{cmd}, args...)
				}
				m, err := parseMoveFields(fields)
				if err != nil {
					d.out <- fmt.Sprintf("invalid move: %v", err)
					break
				}
				status := d.g.ApplyMove(ctx, m)
				if !status.OK {
					d.out <- fmt.Sprintf("invalid move: %v", status.Error)
				} else {
					d.printBoard()
					if status.GameOver {
						d.out <- fmt.Sprintf("game over: %v", status.Result)
					}
				}
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func parseMoveFields(fields []string) (board.Move, error) {
	if len(fields) != 3 {
		return board.NoMove, fmt.Errorf("expected '<piece_id> <to_col> <to_row>', got %v", strings.Join(fields, " "))
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return board.NoMove, fmt.Errorf("bad piece id %q: %w", fields[0], err)
	}
	dc, err := strconv.Atoi(fields[1])
	if err != nil {
		return board.NoMove, fmt.Errorf("bad column %q: %w", fields[1], err)
	}
	dr, err := strconv.Atoi(fields[2])
	if err != nil {
		return board.NoMove, fmt.Errorf("bad row %q: %w", fields[2], err)
	}
	return board.Move{PieceID: int32(pid), ToCol: int8(dc), ToRow: int8(dr)}, nil
}

func (d *Driver) printBoard() {
	pos := d.g.Position()

	grid := make([][]string, board.NumRows)
	for r := range grid {
		grid[r] = make([]string, board.NumCols)
		for c := range grid[r] {
			grid[r][c] = "."
		}
	}
	for _, p := range pos.AllAlive() {
		if p.IsCarried() {
			continue
		}
		grid[p.Row][p.Col] = printPiece(p)
	}

	d.out <- ""
	for row := board.NumRows - 1; row >= 0; row-- {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%2d ", row)
		for col := int8(0); col < board.NumCols; col++ {
			fmt.Fprintf(&sb, "%4s", grid[row][col])
		}
		d.out <- sb.String()
	}
	var header strings.Builder
	header.WriteString("   ")
	for col := int8(0); col < board.NumCols; col++ {
		fmt.Fprintf(&header, "%4d", col)
	}
	d.out <- header.String()
	d.out <- ""
	d.out <- fmt.Sprintf("side to move: %v, mode: %v", pos.Side(), pos.Mode())
	d.out <- ""
}

func printPiece(p board.Piece) string {
	s := kindLetter(p.Kind)
	if p.Hero {
		s += "*"
	}
	if p.Side == board.Blue {
		s = strings.ToLower(s)
	}
	return s
}

func kindLetter(k board.Kind) string {
	switch k {
	case board.Commander:
		return "C"
	case board.Headquarters:
		return "H"
	case board.Infantry:
		return "I"
	case board.Militia:
		return "M"
	case board.Tank:
		return "T"
	case board.Engineer:
		return "E"
	case board.Artillery:
		return "A"
	case board.AntiAircraft:
		return "X"
	case board.Missile:
		return "S"
	case board.AirForce:
		return "F"
	case board.Navy:
		return "N"
	default:
		return "?"
	}
}
