package http

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

func TestWebSocketSubmitFlow(t *testing.T) {
	service := newTestService(nil)
	server := httptest.NewServer(NewServer(service, DefaultLimits, nil))
	defer server.Close()

	view, err := service.StartFromSet(t.Context(), "set-1", "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	u := "ws" + server.URL[len("http"):] + "/ws?gameId=" + view.GameID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the initial state first.
	if typ, payload := readNext(conn, t, "state"); payload["gameId"] != view.GameID {
		t.Fatalf("expected state for %s, got %s %v", view.GameID, typ, payload["gameId"])
	}

	moves := solution(view)
	for _, m := range moves {
		msg := map[string]any{
			"type":    "cell",
			"payload": map[string]any{"row": m.Row, "col": m.Col, "value": m.Value},
		}
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("write cell: %v", err)
		}
	}
	if err := conn.WriteJSON(map[string]any{"type": "submit"}); err != nil {
		t.Fatalf("write submit: %v", err)
	}

	// Expect state updates, then the submit result.
	var result map[string]any
	for i := 0; i < len(moves)+3 && result == nil; i++ {
		typ, payload := readNext(conn, t, "")
		switch typ {
		case "submitResult":
			result = payload
		case "error":
			t.Fatalf("unexpected error message: %v", payload)
		}
	}
	if result == nil {
		t.Fatalf("expected submitResult")
	}
	if result["completed"] != true || result["totalScore"] != float64(20*len(view.Clues)) {
		t.Fatalf("unexpected submit result %v", result)
	}
}

func TestWebSocketReportsBadInput(t *testing.T) {
	service := newTestService(nil)
	server := httptest.NewServer(NewServer(service, DefaultLimits, nil))
	defer server.Close()

	view, err := service.StartFromSet(t.Context(), "set-1", "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?gameId="+view.GameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "state")

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, payload := readNext(conn, t, "error"); payload["message"] != "unsupported message type" {
		t.Fatalf("unexpected error payload %v", payload)
	}

	if err := conn.WriteJSON(map[string]any{"type": "cell", "payload": map[string]any{"row": 99, "col": 0, "value": "a"}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readNext(conn, t, "error")
}

func TestWebSocketUnknownGame(t *testing.T) {
	server := httptest.NewServer(NewServer(newTestService(nil), DefaultLimits, nil))
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?gameId=missing", nil)
	if err == nil {
		t.Fatalf("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != 404 {
		t.Fatalf("expected 404 handshake response, got %v", resp)
	}
}

func TestWebSocketEndedGame(t *testing.T) {
	service := newTestService(nil)
	server := httptest.NewServer(NewServer(service, DefaultLimits, nil))
	defer server.Close()

	view, err := service.StartFromSet(t.Context(), "set-1", "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?gameId="+view.GameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "state")

	if err := service.End(t.Context(), view.GameID); err != nil {
		t.Fatalf("end: %v", err)
	}
	readNext(conn, t, "ended")
}

func TestWebSocketRateLimitsMoves(t *testing.T) {
	service := newTestService(nil)
	server := httptest.NewServer(NewServer(service, Limits{MovesPerSecond: 2}, nil))
	defer server.Close()

	view, err := service.StartFromSet(t.Context(), "set-1", "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?gameId="+view.GameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readNext(conn, t, "state")

	for _, m := range solution(view)[:5] {
		msg := map[string]any{
			"type":    "cell",
			"payload": map[string]any{"row": m.Row, "col": m.Col, "value": m.Value},
		}
		if err := conn.WriteJSON(msg); err != nil {
			t.Fatalf("write cell: %v", err)
		}
	}

	limited := false
	for i := 0; i < 5 && !limited; i++ {
		typ, payload := readNext(conn, t, "")
		limited = typ == "error" && payload["message"] == "too many moves, retry later"
	}
	if !limited {
		t.Fatalf("expected moves beyond the limit to be rejected")
	}
}

func TestWebSocketHandlerExitsWhenClientStopsReading(t *testing.T) {
	var logs syncBuffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

	service := newTestService(nil)
	server := httptest.NewServer(NewServer(service, DefaultLimits, logger))
	defer server.Close()

	view, err := service.StartFromSet(t.Context(), "set-1", "u1")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?gameId="+view.GameID, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	// Every message earns an error reply that nobody reads.
	for range 200 {
		if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
			break
		}
	}
	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(logs.String(), "ws disconnected") {
		if time.Now().After(deadline) {
			t.Fatalf("handler did not exit after the client went away")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
