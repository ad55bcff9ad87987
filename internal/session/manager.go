// Package session keeps the positions of network games. Every game is guarded
// by its own mutex so the board core only ever sees one writer.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hailam/chessboard/internal/board"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourPiece = errors.New("no piece of the side to move on that square")
	ErrIllegalMove  = errors.New("illegal move")
)

// Manager owns all games, keyed by UUID.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*Game
}

func NewManager() *Manager {
	return &Manager{games: make(map[string]*Game)}
}

// NewGame starts a game from fen, or from the initial position if fen is empty.
func (m *Manager) NewGame(fen string) (*Game, error) {
	pos := board.NewPosition()
	if fen != "" {
		var err error
		pos, err = board.ParseFEN(fen)
		if err != nil {
			return nil, err
		}
	}

	g := &Game{
		ID:        uuid.NewString(),
		pos:       pos,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}

	m.mu.Lock()
	m.games[g.ID] = g
	m.mu.Unlock()

	return g, nil
}

func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(m.games, id)
	return nil
}

// Len returns the number of live games.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// PruneIdle removes games untouched for longer than maxIdle and returns how
// many were removed.
func (m *Manager) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, g := range m.games {
		if g.lastUpdate().Before(cutoff) {
			delete(m.games, id)
			removed++
		}
	}
	return removed
}
