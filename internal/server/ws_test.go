package server

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	fws "github.com/fasthttp/websocket"
	"github.com/hailam/chessboard/internal/session"
)

// startServer serves s on a loopback port and returns its address.
func startServer(t *testing.T, s *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go s.App().Listener(ln)
	t.Cleanup(func() { s.Shutdown() })
	return ln.Addr().String()
}

func dial(t *testing.T, addr, gameID string) *fws.Conn {
	t.Helper()
	conn, _, err := fws.DefaultDialer.Dial("ws://"+addr+"/ws/games/"+gameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *fws.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func readState(t *testing.T, conn *fws.Conn) session.GameState {
	t.Helper()
	msg := readMessage(t, conn)
	if msg.Type != MessageTypeState {
		t.Fatalf("message type = %q, want state (payload %s)", msg.Type, msg.Payload)
	}
	var st session.GameState
	if err := json.Unmarshal(msg.Payload, &st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return st
}

func send(t *testing.T, conn *fws.Conn, typ MessageType, payload string) {
	t.Helper()
	msg := Message{Type: typ}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	games := session.NewManager()
	g, err := games.NewGame("")
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	addr := startServer(t, New(games, Config{}))

	a := dial(t, addr, g.ID)
	b := dial(t, addr, g.ID)
	if st := readState(t, a); st.ID != g.ID {
		t.Fatalf("initial state for %q, want %q", st.ID, g.ID)
	}
	readState(t, b)

	send(t, a, MessageTypeSelect, `{"square":"e2"}`)
	for _, conn := range []*fws.Conn{a, b} {
		st := readState(t, conn)
		if st.Selected != "e2" || len(st.LegalMoves) != 2 {
			t.Errorf("selected %q with %v, want e2 with two moves", st.Selected, st.LegalMoves)
		}
	}

	send(t, b, MessageTypeMove, `{"from":"e2","to":"e4"}`)
	for _, conn := range []*fws.Conn{a, b} {
		st := readState(t, conn)
		if st.SideToMove != "Black" || st.Pieces["e4"] != "P" {
			t.Errorf("after e2e4: side %q, e4 %q", st.SideToMove, st.Pieces["e4"])
		}
	}
}

func TestWebSocketErrorsGoToSender(t *testing.T) {
	games := session.NewManager()
	g, _ := games.NewGame("")
	addr := startServer(t, New(games, Config{}))

	a := dial(t, addr, g.ID)
	b := dial(t, addr, g.ID)
	readState(t, a)
	readState(t, b)

	send(t, a, MessageTypeMove, `{"from":"e2","to":"e5"}`)
	if msg := readMessage(t, a); msg.Type != MessageTypeError {
		t.Fatalf("message type = %q, want error", msg.Type)
	}

	// b only hears about the next successful action.
	send(t, a, MessageTypeState, "")
	readState(t, a)
	send(t, a, MessageTypeSelect, `{"square":"g1"}`)
	readState(t, a)
	if st := readState(t, b); st.Selected != "g1" {
		t.Errorf("b saw selection %q, want g1", st.Selected)
	}
}

func TestWebSocketUnknownGame(t *testing.T) {
	addr := startServer(t, New(session.NewManager(), Config{}))

	conn, resp, err := fws.DefaultDialer.Dial("ws://"+addr+"/ws/games/missing", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if msg := readMessage(t, conn); msg.Type != MessageTypeError {
		t.Errorf("message type = %q, want error", msg.Type)
	}
}
