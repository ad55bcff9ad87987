package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hailam/chessboard/internal/session"
)

type createRequest struct {
	FEN string `json:"fen"`
}

type selectRequest struct {
	Square string `json:"square"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "games": s.games.Len()})
}

func (s *Server) createGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	g, err := s.games.NewGame(req.FEN)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(g.State())
}

func (s *Server) getGame(c *fiber.Ctx) error {
	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(g.State())
}

func (s *Server) deleteGame(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.games.Delete(id); err != nil {
		return err
	}
	s.hub.closeGame(id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) selectSquare(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	st, err := g.Select(req.Square)
	if err != nil {
		return err
	}
	s.hub.broadcast(g.ID, stateMessage(st))
	return c.JSON(st)
}

func (s *Server) move(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	g, err := s.games.Get(c.Params("id"))
	if err != nil {
		return err
	}
	st, err := g.Move(req.From, req.To)
	if err != nil {
		return err
	}
	s.hub.broadcast(g.ID, stateMessage(st))
	return c.JSON(st)
}

// applyMessage runs a client message against g.
func applyMessage(g *session.Game, msg Message) (session.GameState, error) {
	switch msg.Type {
	case MessageTypeSelect:
		var req selectRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return session.GameState{}, err
		}
		return g.Select(req.Square)
	case MessageTypeMove:
		var req moveRequest
		if err := decodePayload(msg.Payload, &req); err != nil {
			return session.GameState{}, err
		}
		return g.Move(req.From, req.To)
	case MessageTypeState:
		return g.State(), nil
	default:
		return session.GameState{}, errUnknownMessage(msg.Type)
	}
}
