package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hmori/quizquest/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The server fronts a local single-player session.
	CheckOrigin: func(*http.Request) bool { return true },
}

// hub fans snapshots out to connected websocket observers.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan stateView
}

func newHub() *hub {
	return &hub{clients: map[*client]struct{}{}}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// broadcast queues a snapshot for every client. Slow clients drop frames
// rather than stalling the game loop.
func (h *hub) broadcast(v stateView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- v:
		default:
		}
	}
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}

	cl := &client{conn: conn, send: make(chan stateView, 16)}
	s.hub.add(cl)

	// Greet with the current state so observers don't wait for a change.
	s.mu.Lock()
	view := s.viewLocked(types.Result{})
	s.mu.Unlock()
	cl.send <- view

	go s.writePump(cl)
	go s.readPump(cl)
}

func (s *Server) writePump(cl *client) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		cl.conn.Close()
	}()
	for {
		select {
		case view, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(view); err != nil {
				return
			}
		case <-ping.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection. Observers send nothing meaningful; the
// read loop exists to notice the close handshake and pong replies.
func (s *Server) readPump(cl *client) {
	defer s.hub.remove(cl)
	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
