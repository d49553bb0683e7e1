package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/peerline/peerline/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers fit comfortably.
	maxMessageSize = 64 * 1024

	sendBufferSize = 32
)

var (
	errSendBufferFull = errors.New("send buffer full")
	errClientClosed   = errors.New("client closed")
)

// wsClient wraps one websocket connection. Implements port.Client. Send
// queues without blocking; a dedicated write pump owns all writes to the
// connection.
type wsClient struct {
	id   domain.ConnID
	conn *websocket.Conn

	send chan domain.Event
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		id:   domain.NewConnID(),
		conn: conn,
		send: make(chan domain.Event, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *wsClient) ID() domain.ConnID {
	return c.id
}

func (c *wsClient) Send(ev domain.Event) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- ev:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *wsClient) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// writePump serializes all writes to the connection: queued events plus
// keepalive pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(h.allowedOrigins),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if origin == o {
				return true
			}
		}
		return false
	}
}

// ServeWS authenticates and upgrades the connection, then feeds inbound
// events to the dispatcher until the transport closes.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.Verifier != nil {
		token := r.URL.Query().Get("token")
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		if _, err := h.Verifier.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
	}

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := newWSClient(conn)

	l := log.With().Str("conn_id", client.id.String()).Logger()
	l.Info().Msg("New connection")

	h.Dispatcher.Connect(client)
	go client.writePump()

	defer func() {
		l.Info().Msg("Connection closed")
		h.Dispatcher.Disconnect(client.id)
		client.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}

		// A payload that is not valid JSON costs the sender the event, not
		// the connection.
		var in domain.Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			l.Warn().Err(err).Msg("Dropping undecodable event")
			continue
		}

		h.Dispatcher.Dispatch(client.id, in)
	}
}
