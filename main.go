// Chessboard - a two-player chess board built with Ebitengine
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/storage"
	"github.com/hailam/chessboard/internal/ui"
)

var (
	fenFlag   = flag.String("fen", "", "start from this FEN instead of the saved or initial position")
	noStorage = flag.Bool("no-storage", false, "do not load or save preferences and games")
)

func main() {
	flag.Parse()

	var start *board.Position
	if *fenFlag != "" {
		pos, err := board.ParseFEN(*fenFlag)
		if err != nil {
			log.Fatal(err)
		}
		start = pos
	}

	var store *storage.Storage
	if !*noStorage {
		var err error
		store, err = storage.NewStorage()
		if err != nil {
			log.Printf("Warning: Failed to initialize storage: %v", err)
		} else {
			defer store.Close()
		}
	}

	game := ui.NewGame(store, start)
	defer game.Close()

	ebiten.SetWindowSize(ui.ScreenWidth, ui.ScreenHeight)
	ebiten.SetWindowTitle("Chessboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
