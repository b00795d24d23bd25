package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"covid-dashboard-backend/internal/utils"
	"covid-dashboard-backend/internal/views"
)

// Config holds broadcaster configuration
type Config struct {
	MaxClients      int  `env:"BROADCASTER_MAX_CLIENTS"`       // Maximum concurrent clients
	BufferSize      int  `env:"BROADCASTER_BUFFER_SIZE"`       // Send buffer per client
	DropSlowClients bool `env:"BROADCASTER_DROP_SLOW_CLIENTS"` // Disconnect clients whose buffer is full
}

// DefaultConfig returns default broadcaster configuration
func DefaultConfig() Config {
	return Config{
		MaxClients:      1000,
		BufferSize:      64,
		DropSlowClients: true,
	}
}

// SnapshotProvider supplies the current dashboard snapshot
type SnapshotProvider interface {
	DashboardSnapshot() (*views.DashboardSnapshot, error)
}

// Client represents a WebSocket client. The send channel is never closed;
// teardown closes done instead, so a broadcast holding a stale client
// reference can never send on a closed channel.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Broadcaster manages WebSocket clients and pushes the dashboard snapshot
// to each client on registration and to all clients after a dataset reload.
// The dataset changes rarely, so there is no periodic resend; the ping
// ticker in writePump keeps idle connections alive.
type Broadcaster struct {
	config     Config
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	reloads    chan struct{}
	mu         sync.RWMutex
	upgrader   websocket.Upgrader
	provider   SnapshotProvider
}

// NewBroadcaster creates a new broadcaster
func NewBroadcaster(config Config, provider SnapshotProvider) *Broadcaster {
	return &Broadcaster{
		config:     config,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		reloads:    make(chan struct{}, 1),
		provider:   provider,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow connections from any origin
			},
		},
	}
}

// NotifyReload schedules a snapshot broadcast. Safe to call from any
// goroutine; coalesces when a broadcast is already pending.
func (b *Broadcaster) NotifyReload() {
	select {
	case b.reloads <- struct{}{}:
	default:
	}
}

// Start begins the broadcaster's main loop
func (b *Broadcaster) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			utils.BroadcasterLogger.Info("Shutting down")
			return

		case client := <-b.register:
			b.handleClientRegistration(client)

		case client := <-b.unregister:
			b.handleClientUnregistration(client)

		case <-b.reloads:
			b.broadcastSnapshot()
		}
	}
}

// handleClientRegistration handles new client registration
func (b *Broadcaster) handleClientRegistration(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.clients) >= b.config.MaxClients {
		utils.BroadcasterLogger.Warn("Client limit %d reached, rejecting %s", b.config.MaxClients, client.id)
		close(client.done)
		client.conn.Close()
		return
	}

	b.clients[client] = true
	go client.writePump()

	// Send the current snapshot to the new client
	data, err := b.snapshotMessage()
	if err != nil {
		utils.BroadcasterLogger.Error("Snapshot for new client failed: %v", err)
		return
	}

	select {
	case client.send <- data:
		utils.BroadcasterLogger.Debug("Registered client %s (%d connected)", client.id, len(b.clients))
	default:
		close(client.done)
		delete(b.clients, client)
	}
}

// handleClientUnregistration handles client disconnection
func (b *Broadcaster) handleClientUnregistration(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client.done)
		utils.BroadcasterLogger.Debug("Unregistered client %s (%d connected)", client.id, len(b.clients))
	}
}

// snapshotMessage builds the wire message carrying the current snapshot
func (b *Broadcaster) snapshotMessage() ([]byte, error) {
	snapshot, err := b.provider.DashboardSnapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]interface{}{
		"type": "dashboard",
		"data": snapshot,
	})
}

// broadcastSnapshot sends the current snapshot to all connected clients
func (b *Broadcaster) broadcastSnapshot() {
	data, err := b.snapshotMessage()
	if err != nil {
		utils.BroadcasterLogger.Error("Snapshot broadcast failed: %v", err)
		return
	}

	b.mu.RLock()
	clients := make([]*Client, 0, len(b.clients))
	for client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.RUnlock()

	for _, client := range clients {
		go b.trySend(client, data)
	}

	if len(clients) > 0 {
		utils.BroadcasterLogger.Info("Sent dashboard snapshot to %d clients", len(clients))
	}
}

// trySend queues data for one client. The client may have been unregistered
// after the caller captured it; the done case covers that without touching
// a closed channel.
func (b *Broadcaster) trySend(c *Client, data []byte) {
	select {
	case c.send <- data:
	case <-c.done:
	default:
		// Client's send channel is full
		if b.config.DropSlowClients {
			b.unregister <- c
		}
	}
}

// UpgradeConnection upgrades HTTP connection to WebSocket
func (b *Broadcaster) UpgradeConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &Client{
		id:   generateClientID(),
		conn: conn,
		send: make(chan []byte, b.config.BufferSize),
		done: make(chan struct{}),
	}

	b.register <- client

	go client.readPump(b.unregister)
}

// GetClientCount returns the current number of connected clients
func (b *Broadcaster) GetClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump(unregister chan<- *Client) {
	defer func() {
		unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// generateClientID generates a unique client ID
func generateClientID() string {
	return fmt.Sprintf("client_%d", time.Now().UnixNano())
}
