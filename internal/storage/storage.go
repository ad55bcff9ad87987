package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keySavedGame   = "saved_game"
)

// ErrNoSavedGame is returned by LoadGame when nothing has been saved.
var ErrNoSavedGame = errors.New("no saved game")

// UserPreferences stores user settings
type UserPreferences struct {
	FlipBoard      bool      `json:"flip_board"`
	SoundEnabled   bool      `json:"sound_enabled"`
	ShowLegalMoves bool      `json:"show_legal_moves"`
	ResumeGame     bool      `json:"resume_game"`
	LastPlayed     time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		SoundEnabled:   true,
		ShowLegalMoves: true,
		ResumeGame:     true,
		LastPlayed:     time.Now(),
	}
}

// SavedGame is a resumable game: the current position and the moves that led
// to it, in long algebraic form.
type SavedGame struct {
	FEN     string    `json:"fen"`
	Moves   []string  `json:"moves"`
	SavedAt time.Time `json:"saved_at"`
}

// Outcome is how a finished game ended.
type Outcome int

const (
	OutcomeWhiteWins Outcome = iota
	OutcomeBlackWins
	OutcomeStalemate
)

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed   int           `json:"games_played"`
	WhiteWins     int           `json:"white_wins"`
	BlackWins     int           `json:"black_wins"`
	Stalemates    int           `json:"stalemates"`
	TotalMoves    int           `json:"total_moves"`
	TotalPlayTime time.Duration `json:"total_play_time"`
}

// GameResult represents the result of a completed game
type GameResult struct {
	Outcome  Outcome
	Moves    int
	Duration time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// put stores v as JSON under key.
func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the JSON value under key into v. It reports false if the key
// does not exist.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveGame stores the game in progress, replacing any previous one.
func (s *Storage) SaveGame(game *SavedGame) error {
	game.SavedAt = time.Now()
	return s.put(keySavedGame, game)
}

// LoadGame returns the saved game or ErrNoSavedGame.
func (s *Storage) LoadGame() (*SavedGame, error) {
	game := &SavedGame{}
	found, err := s.get(keySavedGame, game)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoSavedGame
	}
	return game, nil
}

// ClearGame deletes the saved game.
func (s *Storage) ClearGame() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keySavedGame))
	})
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	_, err := s.get(keyStats, stats)
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalMoves += result.Moves
	stats.TotalPlayTime += result.Duration

	switch result.Outcome {
	case OutcomeWhiteWins:
		stats.WhiteWins++
	case OutcomeBlackWins:
		stats.BlackWins++
	case OutcomeStalemate:
		stats.Stalemates++
	}

	return s.SaveStats(stats)
}

// AverageMoves returns the mean number of moves per finished game.
func (s *GameStats) AverageMoves() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.TotalMoves) / float64(s.GamesPlayed)
}
