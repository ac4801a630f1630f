package display

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"CounterPOS/app/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"golang.org/x/crypto/bcrypt"
)

// MessageType represents the type of message pushed to displays.
type MessageType string

const (
	TypeCartUpdate   MessageType = "cart_update"
	TypeOrderCreated MessageType = "order_created"
	TypeNotification MessageType = "notification"
	TypeHeartbeat    MessageType = "heartbeat"
	TypeAuthenticate MessageType = "authenticate"
	TypeAuthResponse MessageType = "auth_response"
)

// Message is the envelope for all display traffic.
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Client is a connected customer display.
type Client struct {
	ID            string
	Conn          *websocket.Conn
	Send          chan []byte
	Authenticated bool
	ConnectedAt   time.Time
	RemoteAddr    string
	server        *Server
}

// Server pushes the live cart to customer-facing display screens over
// WebSocket. Displays on the shop network find it via mDNS and pair
// with a PIN.
type Server struct {
	clients     map[string]*Client
	broadcast   chan []byte
	register    chan *Client
	unregister  chan *Client
	upgrader    websocket.Upgrader
	mu          sync.RWMutex
	port        int
	serviceName string
	pinHash     string
	enableMDNS  bool
	httpServer  *http.Server
	mdnsServer  *zeroconf.Server
	done        chan struct{}
}

// NewServer creates a new display server. pinHash is a bcrypt hash of
// the pairing PIN; empty means open pairing.
func NewServer(port int, serviceName, pinHash string, enableMDNS bool) *Server {
	return &Server{
		clients:     make(map[string]*Client),
		broadcast:   make(chan []byte),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		port:        port,
		serviceName: serviceName,
		pinHash:     pinHash,
		enableMDNS:  enableMDNS,
		done:        make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Displays live on the local network.
				return true
			},
		},
	}
}

// Start runs the hub and the HTTP listener. It returns once the
// listener is launched; listen errors are logged.
func (s *Server) Start() {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	if s.enableMDNS {
		go s.announceMDNS()
	}

	go func() {
		log.Printf("Display server listening on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Display server stopped: %v", err)
		}
	}()
}

// announceMDNS registers the display service so screens can discover
// it without configuration.
func (s *Server) announceMDNS() {
	server, err := zeroconf.Register(
		s.serviceName,
		"_counterpos._tcp",
		"local.",
		s.port,
		[]string{"version=1.0"},
		nil,
	)
	if err != nil {
		log.Printf("mDNS registration failed: %v", err)
		return
	}

	s.mdnsServer = server
	log.Printf("mDNS: announced %q on _counterpos._tcp.local", s.serviceName)

	<-s.done
	server.Shutdown()
	log.Println("mDNS: announcement stopped")
}

// Stop shuts the listener down and disconnects every display.
func (s *Server) Stop() {
	close(s.done)

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		close(client.Send)
		client.Conn.Close()
		delete(s.clients, id)
	}
}

// run is the hub loop. All clients map writes happen here or under mu.
func (s *Server) run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			log.Printf("Display connected: %s (%s)", client.ID, client.RemoteAddr)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.Send)
				log.Printf("Display disconnected: %s", client.ID)
			}
			s.mu.Unlock()

		case message := <-s.broadcast:
			s.mu.Lock()
			for id, client := range s.clients {
				if !client.Authenticated {
					continue
				}
				select {
				case client.Send <- message:
				default:
					// Slow display, drop it.
					delete(s.clients, id)
					close(client.Send)
				}
			}
			s.mu.Unlock()

		case <-ticker.C:
			s.sendHeartbeat()

		case <-s.done:
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Display upgrade failed: %v", err)
		return
	}

	client := &Client{
		ID:            uuid.NewString(),
		Conn:          conn,
		Send:          make(chan []byte, 64),
		Authenticated: s.pinHash == "",
		ConnectedAt:   time.Now(),
		RemoteAddr:    r.RemoteAddr,
		server:        s,
	}

	s.register <- client

	go client.writePump()
	go client.readPump()

	if client.Authenticated {
		client.sendAuthResponse(true, "connected")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	count := len(s.clients)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "healthy",
		"clients": count,
		"time":    time.Now(),
	})
}

// ClientCount returns the number of connected displays.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// dropClient hands a disconnecting client to the hub. After Stop the
// hub loop is gone, so the handoff must not block forever.
func (s *Server) dropClient(c *Client) {
	select {
	case s.unregister <- c:
	case <-s.done:
	}
}

// readPump consumes messages from one display until it disconnects.
func (c *Client) readPump() {
	defer func() {
		c.server.dropClient(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Display read error: %v", err)
			}
			return
		}

		var message Message
		if err := json.Unmarshal(raw, &message); err != nil {
			log.Printf("Display sent malformed message: %v", err)
			continue
		}
		c.handleMessage(&message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.Conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type authenticateData struct {
	PIN string `json:"pin"`
}

func (c *Client) handleMessage(message *Message) {
	switch message.Type {
	case TypeAuthenticate:
		var data authenticateData
		if err := json.Unmarshal(message.Data, &data); err != nil {
			c.sendAuthResponse(false, "malformed authenticate message")
			return
		}
		c.authenticate(data.PIN)

	case TypeHeartbeat:
		c.send(Message{
			Type:      TypeHeartbeat,
			Timestamp: time.Now(),
			Data:      json.RawMessage(`{"status":"alive"}`),
		})

	default:
		log.Printf("Display %s sent unknown message type %s", c.ID, message.Type)
	}
}

// authenticate checks the pairing PIN against the configured hash.
func (c *Client) authenticate(pin string) {
	if c.server.pinHash == "" {
		c.Authenticated = true
		c.sendAuthResponse(true, "connected")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(c.server.pinHash), []byte(pin)); err != nil {
		log.Printf("Display %s failed PIN check", c.ID)
		c.sendAuthResponse(false, "invalid PIN")
		return
	}

	c.Authenticated = true
	c.sendAuthResponse(true, "connected")
}

func (c *Client) sendAuthResponse(success bool, text string) {
	data, _ := json.Marshal(map[string]interface{}{
		"success":   success,
		"message":   text,
		"client_id": c.ID,
	})
	c.send(Message{
		Type:      TypeAuthResponse,
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (c *Client) send(message Message) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		log.Printf("Display %s send buffer full", c.ID)
	}
}

// BroadcastCart pushes the rendered cart to every paired display.
func (s *Server) BroadcastCart(view models.CartView) {
	s.broadcastMessage(TypeCartUpdate, view)
}

// BroadcastOrderCreated tells displays a checkout completed so they can
// show the total and thank the customer.
func (s *Server) BroadcastOrderCreated(orderID int64, totalText string) {
	s.broadcastMessage(TypeOrderCreated, map[string]interface{}{
		"order_id":   orderID,
		"total_text": totalText,
	})
}

// BroadcastNotification pushes a free-form notice to displays.
func (s *Server) BroadcastNotification(title, text string) {
	s.broadcastMessage(TypeNotification, map[string]string{
		"title":   title,
		"message": text,
	})
}

func (s *Server) broadcastMessage(msgType MessageType, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Display broadcast marshal failed: %v", err)
		return
	}

	raw, err := json.Marshal(Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		return
	}

	select {
	case s.broadcast <- raw:
	case <-s.done:
	}
}

func (s *Server) sendHeartbeat() {
	s.broadcastMessage(TypeHeartbeat, map[string]string{"ping": "pong"})
}

// SetPIN stores a bcrypt hash of the pairing PIN and returns it so the
// caller can persist it.
func SetPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("could not hash PIN: %w", err)
	}
	return string(hash), nil
}
