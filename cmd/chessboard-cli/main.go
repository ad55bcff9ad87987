package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/console"
	"github.com/hailam/chessboard/internal/storage"
)

var (
	fenFlag   = flag.String("fen", "", "start from this FEN instead of the initial position")
	noStorage = flag.Bool("no-storage", false, "disable save/load")
)

func main() {
	flag.Parse()

	c := console.New(os.Stdin, os.Stdout)

	if *fenFlag != "" {
		pos, err := board.ParseFEN(*fenFlag)
		if err != nil {
			log.Fatal(err)
		}
		c.SetPosition(pos)
	}

	if !*noStorage {
		store, err := storage.NewStorage()
		if err != nil {
			log.Printf("Warning: storage unavailable: %v", err)
		} else {
			defer store.Close()
			c.SetStorage(store)
		}
	}

	if err := c.Run(); err != nil {
		log.Fatal(err)
	}
}
