package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/talgya/hexclaim/internal/board"
)

// Hub fans board events out to websocket watchers. Watchers are
// receive-only; anything they send is discarded.
type Hub struct {
	watchers   map[*watcher]bool
	register   chan *watcher
	unregister chan *watcher
	broadcast  chan []byte
	quit       chan struct{}
	count      atomic.Int32
}

type watcher struct {
	conn *websocket.Conn
	send chan []byte
}

// The feed is read-only, so cross-origin pages may subscribe freely.
var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// NewHub creates a hub. Call Run before serving watchers.
func NewHub() *Hub {
	return &Hub{
		watchers:   make(map[*watcher]bool),
		register:   make(chan *watcher),
		unregister: make(chan *watcher),
		broadcast:  make(chan []byte, 256),
		quit:       make(chan struct{}),
	}
}

// Run dispatches events to watchers until Close is called.
func (h *Hub) Run() {
	for {
		select {
		case w := <-h.register:
			h.watchers[w] = true
			h.count.Store(int32(len(h.watchers)))
		case w := <-h.unregister:
			if h.watchers[w] {
				delete(h.watchers, w)
				close(w.send)
				h.count.Store(int32(len(h.watchers)))
			}
		case msg := <-h.broadcast:
			for w := range h.watchers {
				select {
				case w.send <- msg:
				default:
					// Slow watcher: drop it rather than stall the feed.
					delete(h.watchers, w)
					close(w.send)
				}
			}
			h.count.Store(int32(len(h.watchers)))
		case <-h.quit:
			for w := range h.watchers {
				delete(h.watchers, w)
				close(w.send)
			}
			h.count.Store(0)
			return
		}
	}
}

// Close stops the dispatch loop and disconnects all watchers.
func (h *Hub) Close() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
}

// Count returns the number of connected watchers.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// Broadcast queues one board event for all watchers. Best effort: if the
// queue is full the event is dropped, watchers catch up from /api/v1/events.
func (h *Hub) Broadcast(e board.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// ServeWS upgrades an HTTP request into a watcher connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	wt := &watcher{conn: conn, send: make(chan []byte, 64)}
	select {
	case h.register <- wt:
	case <-h.quit:
		conn.Close()
		return
	}
	slog.Info("watcher connected", "remote", conn.RemoteAddr())

	go wt.writer()
	go wt.reader(h)
}

func (wt *watcher) reader(h *Hub) {
	defer func() {
		select {
		case h.unregister <- wt:
		case <-h.quit:
		}
		wt.conn.Close()
		slog.Info("watcher disconnected", "remote", wt.conn.RemoteAddr())
	}()
	wt.conn.SetReadLimit(512)
	for {
		if _, _, err := wt.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (wt *watcher) writer() {
	for msg := range wt.send {
		if err := wt.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	wt.conn.Close()
}
