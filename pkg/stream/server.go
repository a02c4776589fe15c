package stream

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	sendBufferSize = 256
)

// AttachFunc produces the frames a freshly connected session receives
// (scene snapshot, dataset info, current transform).
type AttachFunc func(sessionID string) [][]byte

// EventFunc receives decoded shell events.
type EventFunc func(sessionID string, evt Event)

// Hub accepts WebSocket shells and fans engine frames out to them. Each
// session gets a buffered send queue and a writer goroutine; a shell that
// cannot keep up is dropped rather than allowed to stall the engine loop.
type Hub struct {
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session
	nextID   uint64

	onAttach AttachFunc
	onEvent  EventFunc
}

type session struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewHub creates a hub. onAttach may be nil (new sessions start empty);
// onEvent may be nil (inbound events are ignored).
func NewHub(onAttach AttachFunc, onEvent EventFunc) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
		onAttach: onAttach,
		onEvent:  onEvent,
	}
}

// HandleWebSocket upgrades the request and runs the session until the
// connection drops.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Stream] Failed to upgrade connection: %v", err)
		return
	}

	h.mu.Lock()
	h.nextID++
	s := &session{
		id:   fmt.Sprintf("s%d", h.nextID),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	h.sessions[s.id] = s
	h.mu.Unlock()

	log.Printf("[Stream] Session %s connected from %s", s.id, r.RemoteAddr)

	go h.writer(s)

	if h.onAttach != nil {
		for _, frame := range h.onAttach(s.id) {
			s.enqueue(frame)
		}
	}

	h.reader(s)
	h.drop(s)
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast queues a frame for every session. Sessions with a full queue
// are disconnected.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.RLock()
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	for _, s := range sessions {
		if !s.enqueue(frame) {
			log.Printf("[Stream] Session %s is not draining, dropping", s.id)
			h.drop(s)
		}
	}
}

// SendTo queues a frame for one session.
func (h *Hub) SendTo(sessionID string, frame []byte) {
	h.mu.RLock()
	s := h.sessions[sessionID]
	h.mu.RUnlock()
	if s != nil {
		s.enqueue(frame)
	}
}

// Close disconnects every session.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[string]*session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (h *Hub) reader(s *session) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Stream] Session %s read error: %v", s.id, err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		evt, err := DecodeEvent(data)
		if err != nil {
			log.Printf("[Stream] Session %s sent a bad event: %v", s.id, err)
			continue
		}
		if h.onEvent != nil {
			h.onEvent(s.id, evt)
		}
	}
}

func (h *Hub) writer(s *session) {
	for {
		select {
		case frame := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (h *Hub) drop(s *session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
	s.close()
}

func (s *session) enqueue(frame []byte) bool {
	select {
	case s.send <- frame:
		return true
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
		log.Printf("[Stream] Session %s closed", s.id)
	})
}
