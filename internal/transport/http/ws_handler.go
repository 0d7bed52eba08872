package http

import (
	"context"
	"encoding/json"
	"net/http"

	"crossword-service/internal/app"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.CrosswordService
	logger   *log.Logger
	upgrader websocket.Upgrader

	// moves limits cell messages per client IP; nil disables the limit.
	moves *rateLimiter
}

func NewWSHandler(service *app.CrosswordService, logger *log.Logger) *WSHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type cellPayload struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the crossword use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), gameID)
	if err != nil {
		status, msg := statusFor(err)
		http.Error(w, msg, status)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "game", gameID, "err", err)
		return
	}
	defer conn.Close()
	h.logger.Debug("ws connected", "game", gameID, "remote", r.RemoteAddr)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", "game", gameID, "err", err)
				// Unblocks ReadJSON in the read loop.
				conn.Close()
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					select {
					case send <- outboundMessage[any]{Type: "ended", Payload: map[string]string{"gameId": gameID}}:
					case <-closeSignals:
					case <-writerDone:
					}
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: view}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	ip := clientIP(r.RemoteAddr)
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if reply, ok := h.handle(r.Context(), gameID, ip, inbound); ok && !push(reply) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
	h.logger.Debug("ws disconnected", "game", gameID)
}

// handle applies one inbound message. It reports a reply for the client, if any; state
// changes reach the client through the game subscription.
func (h *WSHandler) handle(ctx context.Context, gameID, ip string, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "cell":
		if h.moves != nil && !h.moves.allow(ip) {
			return errorMessage("too many moves, retry later"), true
		}
		var payload cellPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid cell payload"), true
		}
		if _, err := h.service.SetCell(ctx, gameID, payload.Row, payload.Col, payload.Value); err != nil {
			return errorMessage(err.Error()), true
		}
		return outboundMessage[any]{}, false
	case "submit":
		res, _, err := h.service.Submit(ctx, gameID)
		if err != nil {
			return errorMessage(err.Error()), true
		}
		return outboundMessage[any]{Type: "submitResult", Payload: res}, true
	case "reset":
		if _, err := h.service.Reset(ctx, gameID); err != nil {
			return errorMessage(err.Error()), true
		}
		return outboundMessage[any]{}, false
	default:
		return errorMessage("unsupported message type"), true
	}
}
