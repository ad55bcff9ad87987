package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hailam/chessboard/internal/session"
)

func newTestServer() *Server {
	return New(session.NewManager(), Config{})
}

func do(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, data
}

func createGame(t *testing.T, s *Server, body string) session.GameState {
	t.Helper()
	resp, data := do(t, s, http.MethodPost, "/api/games", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, data)
	}
	var st session.GameState
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return st
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	resp, data := do(t, s, http.MethodGet, "/api/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(data), `"status":"ok"`) {
		t.Errorf("body = %s", data)
	}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestServer()
	st := createGame(t, s, "")
	if st.ID == "" || st.SideToMove != "White" {
		t.Fatalf("unexpected state %+v", st)
	}

	resp, data := do(t, s, http.MethodGet, "/api/games/"+st.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, body %s", resp.StatusCode, data)
	}
	var got session.GameState
	json.Unmarshal(data, &got)
	if got.FEN != st.FEN {
		t.Errorf("FEN = %q, want %q", got.FEN, st.FEN)
	}
}

func TestCreateFromFEN(t *testing.T) {
	s := newTestServer()
	st := createGame(t, s, `{"fen":"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"}`)
	if st.Status != "stalemate" {
		t.Errorf("status = %q, want stalemate", st.Status)
	}
}

func TestErrors(t *testing.T) {
	s := newTestServer()
	st := createGame(t, s, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown game", http.MethodGet, "/api/games/missing", "", http.StatusNotFound},
		{"bad fen", http.MethodPost, "/api/games", `{"fen":"xyz w"}`, http.StatusBadRequest},
		{"bad square", http.MethodPost, "/api/games/" + st.ID + "/select", `{"square":"z9"}`, http.StatusBadRequest},
		{"opponent piece", http.MethodPost, "/api/games/" + st.ID + "/select", `{"square":"e7"}`, http.StatusUnprocessableEntity},
		{"illegal move", http.MethodPost, "/api/games/" + st.ID + "/move", `{"from":"e2","to":"e5"}`, http.StatusUnprocessableEntity},
		{"empty body", http.MethodPost, "/api/games/" + st.ID + "/move", "", http.StatusBadRequest},
		{"no upgrade", http.MethodGet, "/ws/games/" + st.ID, "", http.StatusUpgradeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, s, tt.method, tt.path, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (body %s)", resp.StatusCode, tt.want, data)
			}
		})
	}
}

func TestSelectThenMove(t *testing.T) {
	s := newTestServer()
	st := createGame(t, s, "")

	resp, data := do(t, s, http.MethodPost, "/api/games/"+st.ID+"/select", `{"square":"e2"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d, body %s", resp.StatusCode, data)
	}
	var sel session.GameState
	json.Unmarshal(data, &sel)
	if sel.Selected != "e2" || strings.Join(sel.LegalMoves, " ") != "e3 e4" {
		t.Errorf("select state %+v", sel)
	}

	resp, data = do(t, s, http.MethodPost, "/api/games/"+st.ID+"/move", `{"from":"e2","to":"e4"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("move status = %d, body %s", resp.StatusCode, data)
	}
	var moved session.GameState
	json.Unmarshal(data, &moved)
	if moved.SideToMove != "Black" || moved.Pieces["e4"] != "P" {
		t.Errorf("move state %+v", moved)
	}
}

func TestDeleteGame(t *testing.T) {
	s := newTestServer()
	st := createGame(t, s, "")

	if resp, _ := do(t, s, http.MethodDelete, "/api/games/"+st.ID, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if resp, _ := do(t, s, http.MethodGet, "/api/games/"+st.ID, ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestApplyMessage(t *testing.T) {
	g, _ := session.NewManager().NewGame("")

	tests := []struct {
		name    string
		msg     string
		wantErr bool
	}{
		{"select", `{"type":"select","payload":{"square":"b1"}}`, false},
		{"move", `{"type":"move","payload":{"from":"b1","to":"c3"}}`, false},
		{"state", `{"type":"state"}`, false},
		{"missing payload", `{"type":"move"}`, true},
		{"unknown type", `{"type":"resign","payload":{}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			if err := json.Unmarshal([]byte(tt.msg), &msg); err != nil {
				t.Fatalf("bad fixture: %v", err)
			}
			_, err := applyMessage(g, msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("applyMessage error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if st := g.State(); st.Pieces["c3"] != "N" {
		t.Errorf("knight not on c3 after messages: %+v", st.Pieces)
	}
}
