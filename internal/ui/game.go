package ui

import (
	"errors"
	"log"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/storage"
)

const (
	ScreenWidth  = 960
	ScreenHeight = 640
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

// Game implements ebiten.Game for a two-player game on one board.
type Game struct {
	position *board.Position
	legal    []board.Square // legal destinations of the selection
	history  []string
	lastMove *board.Move

	dragging bool
	dragFrom board.Square

	gameOver   bool
	gameResult string
	startedAt  time.Time

	storage *storage.Storage
	prefs   *storage.UserPreferences
	stats   *storage.GameStats

	renderer *Renderer
	input    *InputHandler
	panel    *Panel
	feedback *FeedbackManager

	scale float64
}

// NewGame creates the desktop game. store may be nil, in which case nothing
// is persisted. A non-nil start position overrides any saved game.
func NewGame(store *storage.Storage, start *board.Position) *Game {
	g := &Game{
		position:  board.NewPosition(),
		dragFrom:  board.NoSquare,
		startedAt: time.Now(),
		storage:   store,
		prefs:     storage.DefaultPreferences(),
		renderer:  NewRenderer(BoardSize, SquareSize),
		input:     NewInputHandler(),
		feedback:  NewFeedbackManager(),
		scale:     1.0,
	}
	g.panel = NewPanel(g)

	g.loadPreferences()

	switch {
	case start != nil:
		g.position = start
	case g.prefs.ResumeGame:
		g.resume()
	}
	g.position.UpdateCheckStatus()
	g.checkGameEnd(false)

	return g
}

func (g *Game) loadPreferences() {
	if g.storage == nil {
		return
	}
	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		return
	}
	g.prefs = prefs
	g.renderer.SetFlipped(prefs.FlipBoard)
	g.feedback.Audio().SetEnabled(prefs.SoundEnabled)
	g.loadStats()
}

func (g *Game) loadStats() {
	stats, err := g.storage.LoadStats()
	if err != nil {
		log.Printf("Warning: Failed to load stats: %v", err)
		return
	}
	g.stats = stats
}

func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	g.prefs.LastPlayed = time.Now()
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// resume restores the saved game, if any. It reports whether one was loaded.
func (g *Game) resume() bool {
	if g.storage == nil {
		return false
	}
	saved, err := g.storage.LoadGame()
	if errors.Is(err, storage.ErrNoSavedGame) {
		return false
	}
	if err != nil {
		log.Printf("Warning: Failed to load saved game: %v", err)
		return false
	}
	pos, err := board.ParseFEN(saved.FEN)
	if err != nil {
		log.Printf("Warning: Saved game has a bad position: %v", err)
		return false
	}

	g.position = pos
	g.history = slices.Clone(saved.Moves)
	g.lastMove = nil
	g.gameOver = false
	g.gameResult = ""
	g.clearSelection()
	log.Printf("[GAME] resumed game saved %s (%d moves)", saved.SavedAt.Format(time.DateTime), len(saved.Moves))
	return true
}

func (g *Game) persist() {
	if g.storage == nil || g.gameOver {
		return
	}
	err := g.storage.SaveGame(&storage.SavedGame{
		FEN:     g.position.FEN(),
		Moves:   g.history,
		SavedAt: time.Now(),
	})
	if err != nil {
		log.Printf("Warning: Failed to save game: %v", err)
	}
}

func (g *Game) Update() error {
	g.input.Update(g.scale)
	g.feedback.Update()

	g.handleKeys()
	if !g.panel.HandleInput(g.input) {
		g.handleBoardInput()
	}

	if g.panel.AnyButtonHovered() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case g.input.KeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case g.input.KeyJustPressed(ebiten.KeyF):
		g.FlipAction()
	case g.input.KeyJustPressed(ebiten.KeyS):
		g.SaveAction()
	case g.input.KeyJustPressed(ebiten.KeyL):
		g.LoadAction()
	case g.input.KeyJustPressed(ebiten.KeyEscape):
		g.clearSelection()
	}
}

// handleBoardInput implements click-click and drag-and-drop moves. Pressing
// the selected square again cancels the selection.
func (g *Game) handleBoardInput() {
	if g.gameOver {
		return
	}
	mx, my := g.input.MousePosition()

	if g.input.IsLeftJustPressed() {
		sq := g.renderer.ScreenToSquare(mx, my)
		if sq == board.NoSquare {
			return
		}
		g.handlePress(sq)
		return
	}

	if g.dragging && g.input.IsLeftJustReleased() {
		g.handleRelease(g.renderer.ScreenToSquare(mx, my))
	}
}

func (g *Game) handlePress(sq board.Square) {
	selected, hasSelection := g.position.Selection()
	piece := g.position.At(sq)
	own := piece != board.NoPiece && piece.Color() == g.position.SideToMove

	if (hasSelection && sq == selected) || own {
		g.toggleSquare(sq)
		if _, ok := g.position.Selection(); ok {
			g.dragging = true
			g.dragFrom = sq
		}
		return
	}

	if hasSelection {
		g.tryMove(selected, sq)
	}
}

func (g *Game) handleRelease(target board.Square) {
	from := g.dragFrom
	g.dragging = false
	g.dragFrom = board.NoSquare

	// Released where it was picked up: keep the selection for a second click.
	if target == from || target == board.NoSquare {
		return
	}
	g.tryMove(from, target)
}

// toggleSquare selects sq, or cancels when sq is already selected, and
// refreshes the legal destinations.
func (g *Game) toggleSquare(sq board.Square) {
	g.position.ToggleSelect(sq.Rank(), sq.File())
	g.legal = nil
	g.dragging = false
	g.dragFrom = board.NoSquare
	if _, ok := g.position.Selection(); ok {
		g.legal = g.position.LegalMoves()
	}
}

func (g *Game) clearSelection() {
	g.position.Deselect()
	g.legal = nil
	g.dragging = false
	g.dragFrom = board.NoSquare
}

// tryMove plays from -> to if it is legal, otherwise explains why not and
// drops the selection.
func (g *Game) tryMove(from, to board.Square) {
	if slices.Contains(g.legal, to) {
		g.makeMove(to)
		return
	}
	g.feedback.OnInvalidMove(from, to, g.invalidReason(from, to))
	g.clearSelection()
}

// invalidReason classifies a refused move from the selected square.
func (g *Game) invalidReason(from, to board.Square) InvalidMoveReason {
	mover := g.position.At(from)
	if mover == board.NoPiece {
		return ReasonUnknown
	}
	if target := g.position.At(to); target != board.NoPiece && target.Color() == mover.Color() {
		return ReasonBlockedByOwnPiece
	}
	if slices.Contains(g.position.PseudoLegalMoves(), to) {
		return ReasonWouldLeaveKingInCheck
	}
	return ReasonInvalidPieceMovement
}

func (g *Game) makeMove(to board.Square) {
	m, ok := g.position.ApplyMove(to.Rank(), to.File())
	if !ok {
		return
	}
	log.Printf("[MOVE] %s %s, %s to move", m.Piece.Color(), m, g.position.SideToMove)

	g.history = append(g.history, m.String())
	g.lastMove = &m
	g.clearSelection()
	g.position.UpdateCheckStatus()

	g.feedback.OnMoveMade(m)
	g.checkGameEnd(true)
	g.persist()
}

// checkGameEnd looks for mate or stalemate of the side to move. notify
// controls whether events reach the player and the statistics.
func (g *Game) checkGameEnd(notify bool) {
	var outcome storage.Outcome
	switch g.position.Status() {
	case board.Checkmate:
		winner := g.position.SideToMove.Other()
		g.gameResult = winner.String() + " wins by checkmate!"
		outcome = storage.OutcomeWhiteWins
		if winner == board.Black {
			outcome = storage.OutcomeBlackWins
		}
		if notify {
			g.feedback.OnCheckmate(winner)
		}
	case board.Stalemate:
		g.gameResult = "Draw by stalemate"
		outcome = storage.OutcomeStalemate
		if notify {
			g.feedback.OnStalemate()
		}
	default:
		if notify && g.InCheck() {
			g.feedback.OnCheck()
		}
		return
	}

	g.gameOver = true
	log.Printf("[GAME] %s", g.gameResult)
	if !notify || g.storage == nil {
		return
	}
	if err := g.storage.RecordGame(storage.GameResult{
		Outcome:  outcome,
		Moves:    len(g.history),
		Duration: time.Since(g.startedAt),
	}); err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}
	g.loadStats()
	if err := g.storage.ClearGame(); err != nil {
		log.Printf("Warning: Failed to clear saved game: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	g.panel.SetScale(g.scale)

	screen.Fill(g.renderer.Theme().Background)
	g.renderer.DrawBoard(screen)

	if g.InCheck() {
		if ksq, ok := g.position.KingSquare(g.position.SideToMove); ok {
			g.renderer.DrawCheck(screen, ksq)
		}
	}

	selected, _ := g.position.Selection()
	var hints []board.Square
	if g.prefs.ShowLegalMoves {
		hints = g.legal
	}
	g.renderer.DrawHighlights(screen, selected, hints, g.lastMove)

	skip := board.NoSquare
	if g.dragging {
		skip = g.dragFrom
	}
	g.renderer.DrawPieces(screen, g.position, skip, g.feedback.Animations())
	if g.dragging {
		mx, my := g.input.MousePosition()
		g.renderer.DrawDraggedPiece(screen, g.position.At(g.dragFrom), mx, my)
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)
}

// Layout sizes the screen in device pixels so HiDPI displays stay sharp.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = max(ebiten.Monitor().DeviceScaleFactor(), 1.0)
	return int(ScreenWidth * g.scale), int(ScreenHeight * g.scale)
}

// NewGameAction resets to the initial position and forgets the saved game.
func (g *Game) NewGameAction() {
	g.position = board.NewPosition()
	g.history = nil
	g.lastMove = nil
	g.gameOver = false
	g.gameResult = ""
	g.startedAt = time.Now()
	g.clearSelection()
	g.position.UpdateCheckStatus()

	if g.storage != nil {
		if err := g.storage.ClearGame(); err != nil {
			log.Printf("Warning: Failed to clear saved game: %v", err)
		}
	}
}

func (g *Game) FlipAction() {
	g.prefs.FlipBoard = !g.prefs.FlipBoard
	g.renderer.SetFlipped(g.prefs.FlipBoard)
	g.savePreferences()
}

func (g *Game) ToggleSoundAction() {
	g.prefs.SoundEnabled = !g.prefs.SoundEnabled
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
	g.savePreferences()
}

func (g *Game) SaveAction() {
	if g.storage == nil {
		g.feedback.Notify("Storage unavailable")
		return
	}
	g.persist()
	g.feedback.Notify("Game saved")
}

func (g *Game) LoadAction() {
	if g.resume() {
		g.position.UpdateCheckStatus()
		g.checkGameEnd(false)
		g.feedback.Notify("Game loaded")
		return
	}
	g.feedback.Notify("No saved game")
}

func (g *Game) Position() *board.Position {
	return g.position
}

// InCheck reports the side to move's check flag as of the last
// UpdateCheckStatus.
func (g *Game) InCheck() bool {
	return g.position.KingInCheck[g.position.SideToMove]
}

// Stats returns the recorded results, or nil without storage.
func (g *Game) Stats() *storage.GameStats {
	return g.stats
}

func (g *Game) LegalMoves() []board.Square {
	return g.legal
}

// MoveHistory returns the moves played in long algebraic form.
func (g *Game) MoveHistory() []string {
	return g.history
}

func (g *Game) GameOver() bool {
	return g.gameOver
}

func (g *Game) GameResult() string {
	return g.gameResult
}

func (g *Game) SoundEnabled() bool {
	return g.feedback.Audio().IsEnabled()
}

// Close saves the game in progress and the preferences.
func (g *Game) Close() {
	g.persist()
	g.savePreferences()
}
