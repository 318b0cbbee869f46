package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"beverage-quiz-service/internal/app"
	"beverage-quiz-service/internal/domain"
)

// UserResolver identifies the caller of a request.
type UserResolver interface {
	FromRequest(r *http.Request) domain.UserContext
}

type WSHandler struct {
	service  *app.QuizService
	users    UserResolver
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, users UserResolver, log *zap.Logger, allowedOrigins []string) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		users:   users,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Mode     domain.Mode `json:"mode"`
	Category string      `json:"category"`
}

type answerPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// A reconnecting user is attached to their running session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	user := h.users.FromRequest(r)
	if !user.IsAuthenticated() {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &wsConn{
		user:       user,
		send:       make(chan outboundMessage, 16),
		writerDone: make(chan struct{}),
	}

	go func() {
		defer close(c.writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.String("user", user.UserID), zap.Error(err))
				return
			}
		}
	}()

	// The socket outlives any single request-scoped work.
	ctx := context.WithoutCancel(r.Context())
	if session, err := h.service.Active(ctx, user); err == nil {
		h.attach(ctx, c, session.ID())
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.handle(ctx, c, inbound)
	}

	c.detach()
	c.wg.Wait()
	close(c.send)
	<-c.writerDone
}

func (h *WSHandler) handle(ctx context.Context, c *wsConn, inbound inboundMessage) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Mode == "" {
			c.fail("bad_request", "invalid start payload")
			return
		}
		session, err := h.service.Start(ctx, c.user, payload.Mode, payload.Category)
		if err != nil {
			c.failErr(err)
			return
		}
		h.attach(ctx, c, session.ID())

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.OptionIndex == nil {
			c.fail("bad_request", "invalid answer payload")
			return
		}
		if _, err := h.service.Answer(ctx, c.user, c.sessionID(), *payload.OptionIndex); err != nil {
			c.failErr(err)
		}

	case "tick":
		if _, err := h.service.Tick(ctx, c.user, c.sessionID()); err != nil {
			c.failErr(err)
		}

	case "advance":
		if _, err := h.service.Advance(ctx, c.user, c.sessionID()); err != nil {
			c.failErr(err)
		}

	case "leave":
		id := c.sessionID()
		c.detach()
		if err := h.service.Abandon(ctx, c.user, id); err != nil {
			c.failErr(err)
		}

	default:
		c.fail("bad_request", "unsupported message type")
	}
}

// attach forwards the events of session id to the socket, replacing any
// previous subscription of this connection.
func (h *WSHandler) attach(ctx context.Context, c *wsConn, id string) {
	events, cancel, err := h.service.Subscribe(ctx, c.user, id)
	if err != nil {
		c.failErr(err)
		return
	}

	c.detach()
	stop := make(chan struct{})
	c.mu.Lock()
	c.session = id
	c.stop = func() {
		close(stop)
		cancel()
	}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !c.push(outboundMessage{Type: string(ev.Type), Payload: ev}, stop) {
					return
				}
			case <-stop:
				return
			}
		}
	}()
}

// wsConn is the per-socket state. Only the read loop mutates the subscription.
type wsConn struct {
	user       domain.UserContext
	send       chan outboundMessage
	writerDone chan struct{}
	wg         sync.WaitGroup

	mu      sync.Mutex
	session string
	stop    func()
}

func (c *wsConn) sessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *wsConn) detach() {
	c.mu.Lock()
	stop := c.stop
	c.stop = nil
	c.session = ""
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (c *wsConn) push(msg outboundMessage, stop <-chan struct{}) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.writerDone:
		return false
	case <-stop:
		return false
	}
}

func (c *wsConn) fail(code, message string) {
	c.push(outboundMessage{Type: "error", Payload: errorPayload{Code: code, Message: message}}, nil)
}

func (c *wsConn) failErr(err error) {
	c.push(outboundMessage{Type: "error", Payload: newErrorPayload(err)}, nil)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}
