package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hailam/chessboard/internal/server"
	"github.com/hailam/chessboard/internal/session"
)

const (
	addrEnv    = "CHESSBOARD_ADDR"
	originsEnv = "CHESSBOARD_ALLOW_ORIGINS"
)

var (
	addrFlag    = flag.String("addr", "", "listen address (default $"+addrEnv+" or :3000)")
	originsFlag = flag.String("origins", "", "allowed CORS origins (default $"+originsEnv+" or *)")
	quietFlag   = flag.Bool("quiet", false, "disable the request log")
	idleFlag    = flag.Duration("idle", 2*time.Hour, "drop games idle for this long")
)

func envOr(value, key, fallback string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	games := session.NewManager()
	srv := server.New(games, server.Config{
		AllowOrigins: envOr(*originsFlag, originsEnv, "*"),
		RequestLog:   !*quietFlag,
	})

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := games.PruneIdle(*idleFlag); n > 0 {
				log.Printf("[SERVER] pruned %d idle games", n)
			}
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("[SERVER] shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Printf("[SERVER] shutdown: %v", err)
		}
	}()

	if err := srv.Listen(envOr(*addrFlag, addrEnv, ":3000")); err != nil {
		log.Fatal(err)
	}
}
