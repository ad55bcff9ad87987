// Package server exposes network games over HTTP and WebSocket.
package server

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/session"
)

// Config holds the server options.
type Config struct {
	AllowOrigins string
	// RequestLog enables the per-request access log.
	RequestLog bool
}

// Server routes HTTP and WebSocket traffic to the session manager.
type Server struct {
	app   *fiber.App
	games *session.Manager
	hub   *hub
}

func New(games *session.Manager, cfg Config) *Server {
	s := &Server{
		games: games,
		hub:   newHub(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "chessboard",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	if cfg.RequestLog {
		app.Use(logger.New())
	}
	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	api := app.Group("/api")
	api.Get("/healthz", s.healthz)

	g := api.Group("/games")
	g.Post("/", s.createGame)
	g.Get("/:id", s.getGame)
	g.Delete("/:id", s.deleteGame)
	g.Post("/:id/select", s.selectSquare)
	g.Post("/:id/move", s.move)

	app.Use("/ws", requireUpgrade)
	app.Get("/ws/games/:id", websocket.New(s.handleConn, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	s.app = app
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	log.Printf("[SERVER] listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func requireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, session.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrIllegalMove), errors.Is(err, session.ErrNotYourPiece):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, board.ErrInvalidSquare), errors.Is(err, board.ErrInvalidFEN):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("[SERVER] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
