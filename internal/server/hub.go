package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"dicebound/internal/engine"
	"dicebound/internal/protocol"
	"dicebound/internal/session"
)

var errHubStopped = errors.New("session is shutting down")

// invokeRequest carries a REST invocation into the hub goroutine so its
// broadcast is ordered with every other invocation of the session.
type invokeRequest struct {
	inv   engine.Invocation
	reply chan invokeReply
}

type invokeReply struct {
	events []engine.Event
	view   engine.StateView
	err    error
}

// Hub manages the WebSocket connections following one session. Every
// invocation, whether from a websocket client or REST, runs on the hub
// goroutine.
type Hub struct {
	mu         sync.Mutex
	session    *session.Session
	logger     *slog.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	requests   chan invokeRequest
	quit       chan struct{}
	stopOnce   sync.Once
}

func NewHub(s *session.Session, logger *slog.Logger) *Hub {
	return &Hub{
		session:    s,
		logger:     logger.With("session_id", s.ID),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		requests:   make(chan invokeRequest),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			client.logger.Info("client connected")
			client.SendEnvelope(protocol.MustEnvelope(protocol.MsgWelcome, protocol.Welcome{
				SessionID: h.session.ID,
				Role:      client.Type.String(),
			}))
			client.SendEnvelope(protocol.MustEnvelope(protocol.MsgState, h.session.View()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.logger.Info("client disconnected")
			}
			h.mu.Unlock()

		case msg := <-h.incoming:
			h.handleMessage(msg)

		case req := <-h.requests:
			events, view, err := h.invoke(req.inv)
			req.reply <- invokeReply{events: events, view: view, err: err}

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			clear(h.clients)
			h.mu.Unlock()
			return
		}
	}
}

// Stop terminates Run and closes every client connection.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// Register hands a new client to the hub. It reports false when the hub
// has already stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	if msg.Err != nil {
		h.sendError(msg.Client, fmt.Errorf("%w: %v", protocol.ErrBadPayload, msg.Err))
		return
	}
	if msg.Client.Type != ClientPlayer {
		h.sendError(msg.Client, errSpectator)
		return
	}

	inv, err := protocol.DecodeInvocation(msg.Envelope)
	if err != nil {
		h.sendError(msg.Client, err)
		return
	}

	if _, _, err := h.invoke(inv); err != nil {
		msg.Client.logger.Debug("invocation rejected", "kind", inv.Kind(), "error", err)
		h.sendError(msg.Client, err)
	}
}

// Invoke runs inv on the hub goroutine and waits for the result. The
// events and state are broadcast before Invoke returns.
func (h *Hub) Invoke(ctx context.Context, inv engine.Invocation) ([]engine.Event, engine.StateView, error) {
	req := invokeRequest{inv: inv, reply: make(chan invokeReply, 1)}
	select {
	case h.requests <- req:
	case <-h.quit:
		return nil, engine.StateView{}, errHubStopped
	case <-ctx.Done():
		return nil, engine.StateView{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r.events, r.view, r.err
	case <-ctx.Done():
		return nil, engine.StateView{}, ctx.Err()
	}
}

// invoke must only be called from Run.
func (h *Hub) invoke(inv engine.Invocation) ([]engine.Event, engine.StateView, error) {
	events, view, err := h.session.Invoke(inv)
	if err == nil {
		h.publish(events, view)
	}
	return events, view, err
}

// publish broadcasts the events of a successful invocation followed by
// the resulting state.
func (h *Hub) publish(events []engine.Event, view engine.StateView) {
	for _, ev := range events {
		h.broadcastAll(protocol.MustEnvelope(protocol.MsgEvent, ev))
	}
	h.broadcastAll(protocol.MustEnvelope(protocol.MsgState, view))
}

func (h *Hub) broadcastAll(env protocol.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("broadcast marshal error", "error", err)
		return
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			client.logger.Warn("send buffer full, dropping message", "type", env.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) sendError(client *Client, err error) {
	_, code := classify(err)
	client.SendEnvelope(protocol.MustEnvelope(protocol.MsgError, protocol.ErrorMsg{
		Message: err.Error(),
		Code:    code,
	}))
}
