package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dicebound/internal/engine"
	"dicebound/internal/protocol"
	qr "dicebound/internal/qrcode"
	"dicebound/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	sessions  *session.Manager
	logger    *slog.Logger
	publicURL string

	mu   sync.Mutex
	hubs map[string]*Hub
}

func NewHandlers(sessions *session.Manager, logger *slog.Logger, publicURL string) *Handlers {
	return &Handlers{
		sessions:  sessions,
		logger:    logger,
		publicURL: publicURL,
		hubs:      make(map[string]*Hub),
	}
}

func (h *Handlers) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/api/catalog", h.Catalog)
	e.POST("/api/sessions", h.CreateSession)
	e.GET("/api/sessions/:id", h.GetSession)
	e.DELETE("/api/sessions/:id", h.DeleteSession)
	e.POST("/api/sessions/:id/invoke", h.Invoke)
	e.GET("/api/sessions/:id/advice", h.Advice)
	e.GET("/api/sessions/:id/qr", h.QR)
	e.GET("/ws", h.WS)
}

func (h *Handlers) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handlers) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, protocol.Catalog{
		Entries:  engine.Entries(),
		Items:    h.sessions.Items().All(),
		Loadouts: engine.Loadouts(),
	})
}

// CreateSession starts a new run and its hub.
func (h *Handlers) CreateSession(c echo.Context) error {
	s, err := h.sessions.Create()
	if err != nil {
		return mapError(c, err)
	}
	h.hubFor(s)
	h.logger.Info("session created", "session_id", s.ID)
	return c.JSON(http.StatusCreated, protocol.SessionCreated{ID: s.ID, State: s.View()})
}

func (h *Handlers) GetSession(c echo.Context) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, s.View())
}

// DeleteSession ends a run and disconnects its websocket clients.
func (h *Handlers) DeleteSession(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.sessions.Get(id); err != nil {
		return mapError(c, err)
	}
	h.sessions.Remove(id)
	h.stopHub(id)
	h.logger.Info("session deleted", "session_id", id)
	return c.NoContent(http.StatusNoContent)
}

// Invoke decodes an invocation envelope from the body and runs it on the
// session's hub, so connected websocket clients see the resulting events
// in the same order as the state changes.
func (h *Handlers) Invoke(c echo.Context) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}

	var env protocol.Envelope
	if err := json.NewDecoder(c.Request().Body).Decode(&env); err != nil {
		return mapError(c, fmt.Errorf("%w: %v", protocol.ErrBadPayload, err))
	}
	inv, err := protocol.DecodeInvocation(env)
	if err != nil {
		return mapError(c, err)
	}

	events, view, err := h.hubFor(s).Invoke(c.Request().Context(), inv)
	if err != nil {
		return mapError(c, err)
	}
	if events == nil {
		events = []engine.Event{}
	}
	return c.JSON(http.StatusOK, protocol.InvokeResult{Events: events, State: view})
}

func (h *Handlers) Advice(c echo.Context) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	adv, err := s.Advice()
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, adv)
}

// QR generates a PNG QR code of the spectator link for a session.
func (h *Handlers) QR(c echo.Context) error {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	base := h.publicURL
	if base == "" {
		base = c.Scheme() + "://" + c.Request().Host
	}
	link, err := qr.SpectatorURL(base, s.ID)
	if err != nil {
		return mapError(c, err)
	}
	png, err := qr.Generate(link)
	if err != nil {
		return mapError(c, fmt.Errorf("qr generation failed: %w", err))
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// WS upgrades the connection and attaches it to the session's hub.
func (h *Handlers) WS(c echo.Context) error {
	id := c.QueryParam("session")
	if id == "" {
		return c.JSON(http.StatusBadRequest, protocol.ErrorMsg{Message: "missing session parameter", Code: codeBadRequest})
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		return mapError(c, err)
	}
	hub := h.hubFor(s)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade error", "session_id", id, "error", err)
		return nil
	}

	client := NewClient(hub, conn, ParseClientType(c.QueryParam("type")))
	if !hub.Register(client) {
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()
	return nil
}

// hubFor returns the running hub of a session, starting it on first use.
func (h *Handlers) hubFor(s *session.Session) *Hub {
	h.mu.Lock()
	defer h.mu.Unlock()

	hub, ok := h.hubs[s.ID]
	if !ok {
		hub = NewHub(s, h.logger)
		h.hubs[s.ID] = hub
		go hub.Run()
	}
	return hub
}

func (h *Handlers) stopHub(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if hub, ok := h.hubs[id]; ok {
		hub.Stop()
		delete(h.hubs, id)
	}
}

// ReapIdle removes sessions with no invocation since cutoff and no
// connected clients, stopping their hubs.
func (h *Handlers) ReapIdle(cutoff time.Time) []string {
	removed := h.sessions.Expire(cutoff, func(s *session.Session) bool {
		h.mu.Lock()
		hub, ok := h.hubs[s.ID]
		h.mu.Unlock()
		return ok && hub.ClientCount() > 0
	})
	for _, id := range removed {
		h.stopHub(id)
		h.logger.Info("session expired", "session_id", id)
	}
	return removed
}

// Close stops every hub.
func (h *Handlers) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, hub := range h.hubs {
		hub.Stop()
		delete(h.hubs, id)
	}
}
