// Package console implements a line-oriented text front-end for the board.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/storage"
)

var (
	errNoSelection = errors.New("no piece selected")
	errIllegalMove = errors.New("illegal move")
)

// Console reads commands from in and writes responses to out.
type Console struct {
	in  io.Reader
	out io.Writer

	position *board.Position
	legal    []board.Square
	history  []board.Move
	started  time.Time

	// store is optional; save and load report an error without it.
	store *storage.Storage
}

// New creates a console playing from the starting position.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       in,
		out:      out,
		position: board.NewPosition(),
		started:  time.Now(),
	}
}

// SetStorage enables the save and load commands.
func (c *Console) SetStorage(s *storage.Storage) {
	c.store = s
}

// SetPosition replaces the current position and clears the history.
func (c *Console) SetPosition(pos *board.Position) {
	c.position = pos
	c.legal = nil
	c.history = nil
	c.started = time.Now()
}

// Position returns the current position.
func (c *Console) Position() *board.Position {
	return c.position
}

// Run processes commands until "quit" or end of input.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "new":
			c.SetPosition(board.NewPosition())
			fmt.Fprintln(c.out, "ok")
		case "fen":
			err = c.handleFEN(args)
		case "d", "board":
			fmt.Fprint(c.out, c.position.String())
		case "select":
			err = c.handleSelect(args)
		case "moves":
			c.printLegal()
		case "move":
			err = c.handleMove(args)
		case "status":
			c.printStatus()
		case "history":
			c.printHistory()
		case "save":
			err = c.handleSave()
		case "load":
			err = c.handleLoad()
		case "stats":
			err = c.printStats()
		case "help":
			c.printHelp()
		case "quit":
			return nil
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}

		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}

	return scanner.Err()
}

// handleFEN sets up a position: "fen <fields...>" or just "fen" to print it.
func (c *Console) handleFEN(args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.position.FEN())
		return nil
	}
	pos, err := board.ParseFEN(strings.Join(args, " "))
	if err != nil {
		return err
	}
	c.SetPosition(pos)
	fmt.Fprintln(c.out, "ok")
	return nil
}

// handleSelect selects a square of the side to move and prints its legal
// destinations. Selecting the selected square again cancels.
func (c *Console) handleSelect(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: select <square>")
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		return err
	}

	if err := c.toggle(sq); err != nil {
		return err
	}
	if _, ok := c.position.Selection(); !ok {
		fmt.Fprintln(c.out, "deselected")
		return nil
	}
	c.printLegal()
	return nil
}

// toggle runs the selection state machine on sq and refreshes the legal
// destinations. Only pieces of the side to move can be selected.
func (c *Console) toggle(sq board.Square) error {
	if cur, ok := c.position.Selection(); !ok || cur != sq {
		piece := c.position.At(sq)
		if piece == board.NoPiece || piece.Color() != c.position.SideToMove {
			return fmt.Errorf("no %s piece on %s", c.position.SideToMove, sq)
		}
	}

	c.position.ToggleSelect(sq.Rank(), sq.File())
	c.legal = nil
	if _, ok := c.position.Selection(); ok {
		c.legal = c.position.LegalMoves()
	}
	return nil
}

// handleMove applies "move <to>" for the selected piece or "move <from><to>".
func (c *Console) handleMove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: move <square> | move <from><to>")
	}

	arg := args[0]
	if len(arg) == 4 {
		from, err := board.ParseSquare(arg[:2])
		if err != nil {
			return err
		}
		if cur, ok := c.position.Selection(); !ok || cur != from {
			if err := c.toggle(from); err != nil {
				return err
			}
		}
		arg = arg[2:]
	}

	if _, ok := c.position.Selection(); !ok {
		return errNoSelection
	}
	to, err := board.ParseSquare(arg)
	if err != nil {
		return err
	}
	if !slices.Contains(c.legal, to) {
		return fmt.Errorf("%w: %s", errIllegalMove, to)
	}

	m, _ := c.position.ApplyMove(to.Rank(), to.File())
	c.history = append(c.history, m)
	c.legal = nil

	fmt.Fprintf(c.out, "moved %s\n", m)
	c.printStatus()
	return c.recordResult()
}

// recordResult adds a finished game to the statistics.
func (c *Console) recordResult() error {
	if c.store == nil {
		return nil
	}
	var outcome storage.Outcome
	switch c.position.Status() {
	case board.Checkmate:
		outcome = storage.OutcomeWhiteWins
		if c.position.SideToMove == board.White {
			outcome = storage.OutcomeBlackWins
		}
	case board.Stalemate:
		outcome = storage.OutcomeStalemate
	default:
		return nil
	}
	return c.store.RecordGame(storage.GameResult{
		Outcome:  outcome,
		Moves:    len(c.history),
		Duration: time.Since(c.started),
	})
}

func (c *Console) printStats() error {
	if c.store == nil {
		return errors.New("storage disabled")
	}
	st, err := c.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "games %d, white %d, black %d, stalemates %d, average %.1f moves\n",
		st.GamesPlayed, st.WhiteWins, st.BlackWins, st.Stalemates, st.AverageMoves())
	return nil
}

func (c *Console) printLegal() {
	sq, ok := c.position.Selection()
	if !ok {
		fmt.Fprintln(c.out, "moves: none selected")
		return
	}
	names := make([]string, len(c.legal))
	for i, to := range c.legal {
		names[i] = to.String()
	}
	fmt.Fprintf(c.out, "moves %s: %s\n", sq, strings.Join(names, " "))
}

func (c *Console) printStatus() {
	side := c.position.SideToMove
	switch c.position.Status() {
	case board.Checkmate:
		fmt.Fprintf(c.out, "checkmate, %s wins\n", side.Other())
	case board.Stalemate:
		fmt.Fprintln(c.out, "stalemate")
	default:
		if c.position.InCheck(side) {
			fmt.Fprintf(c.out, "%s to move, in check\n", side)
		} else {
			fmt.Fprintf(c.out, "%s to move\n", side)
		}
	}
}

func (c *Console) printHistory() {
	for i, m := range c.history {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, m)
	}
}

func (c *Console) handleSave() error {
	if c.store == nil {
		return errors.New("storage disabled")
	}
	moves := make([]string, len(c.history))
	for i, m := range c.history {
		moves[i] = m.String()
	}
	if err := c.store.SaveGame(&storage.SavedGame{FEN: c.position.FEN(), Moves: moves}); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "saved")
	return nil
}

func (c *Console) handleLoad() error {
	if c.store == nil {
		return errors.New("storage disabled")
	}
	game, err := c.store.LoadGame()
	if err != nil {
		return err
	}
	pos, err := board.ParseFEN(game.FEN)
	if err != nil {
		return err
	}
	c.SetPosition(pos)
	fmt.Fprintf(c.out, "loaded game saved %s (%d moves)\n", game.SavedAt.Format("2006-01-02 15:04"), len(game.Moves))
	return nil
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `commands:
  new                 start a new game
  fen [FEN]           print or set the position
  d | board           show the board
  select <sq>         select a piece (again to cancel)
  moves               list legal moves of the selection
  move <sq>           move the selection, or move <from><to>
  status              side to move, check, mate
  history             list moves played
  save | load         store or restore the game
  stats               finished games and average length
  quit`)
}
