package www

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sarlink/internal/events"
	"sarlink/internal/logger"
)

// StreamMessage is what /ws clients receive.
type StreamMessage struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// WSHub pushes fleet and log events to websocket clients.
type WSHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan StreamMessage
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	stopChan   chan struct{}
	stopOnce   sync.Once
	mutex      sync.Mutex
}

func NewWSHub() *WSHub {
	return &WSHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan StreamMessage, 128),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		stopChan:   make(chan struct{}),
	}
}

func (hub *WSHub) Run() {
	for {
		select {
		case <-hub.stopChan:
			hub.mutex.Lock()
			for client := range hub.clients {
				client.Close()
				delete(hub.clients, client)
			}
			hub.mutex.Unlock()
			return

		case client := <-hub.register:
			hub.mutex.Lock()
			hub.clients[client] = true
			logger.Log.Printf("ws: client connected (%d total)", len(hub.clients))
			hub.mutex.Unlock()

		case client := <-hub.unregister:
			hub.mutex.Lock()
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				client.Close()
				logger.Log.Printf("ws: client disconnected (%d total)", len(hub.clients))
			}
			hub.mutex.Unlock()

		case msg := <-hub.broadcast:
			hub.mutex.Lock()
			for client := range hub.clients {
				client.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := client.WriteJSON(msg); err != nil {
					logger.Log.Printf("ws: write error: %v", err)
					client.Close()
					delete(hub.clients, client)
				}
			}
			hub.mutex.Unlock()
		}
	}
}

func (hub *WSHub) Stop() {
	hub.stopOnce.Do(func() { close(hub.stopChan) })
}

func (hub *WSHub) ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// Publish queues msg for all clients, dropping it when nobody listens or the queue is full.
func (hub *WSHub) Publish(msg StreamMessage) {
	if hub.ClientCount() == 0 {
		return
	}
	select {
	case hub.broadcast <- msg:
	default:
	}
}

func (hub *WSHub) SetupListeners(bus *events.Bus) {
	bus.SubscribeTypes(func(evt events.Event) {
		data, err := json.Marshal(evt.Payload)
		if err != nil {
			return
		}
		hub.Publish(StreamMessage{Type: evt.Type.String(), Timestamp: evt.Timestamp, Payload: data})
	}, events.EventFleetTicked, events.EventLogAppended, events.EventPlanProposed, events.EventPlanExecuted, events.EventPlanDiscarded)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (hub *WSHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "not a websocket request", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Printf("ws: upgrade failed: %v", err)
		return
	}

	select {
	case hub.register <- conn:
	case <-hub.stopChan:
		conn.Close()
		return
	}

	// Clients only listen; reading detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Log.Printf("ws: %v", err)
				}
				select {
				case hub.unregister <- conn:
				case <-hub.stopChan:
				}
				return
			}
		}
	}()
}
