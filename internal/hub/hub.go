// Package hub maintains the set of connected chat clients and fans inbound
// messages out to all of them. There is one global room: every connected
// client sees every broadcast, including the sender.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"feedchat/internal/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Hub message types.
const (
	MessageRegister   = "register"
	MessageUnregister = "unregister"
	MessageChat       = "chat"
)

// Message is one event on the Hub's internal channel.
type Message struct {
	Type    string
	Client  *Client
	RawData []byte // chat payload, raw text from the websocket frame
}

// Broadcast is the payload fanned out to every connected client.
type Broadcast struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Time     string `json:"time"` // HH:MM, server local, stamped at broadcast
}

// Hub owns the client set and the event loop serializing access to it.
type Hub struct {
	messageChan chan Message
	done        chan struct{}
	stopOnce    sync.Once

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	chatService *service.ChatService
}

// NewHub creates a Hub.
func NewHub(chatService *service.ChatService) *Hub {
	if chatService == nil {
		panic("ChatService cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan Message, 512),
		done:        make(chan struct{}),
		clients:     make(map[*Client]bool),
		chatService: chatService,
	}
}

// Run is the Hub's main event loop. It exits when Stop is called and should
// run in its own goroutine.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for {
		select {
		case msg := <-h.messageChan:
			switch msg.Type {
			case MessageRegister:
				h.registerClient(msg.Client)
			case MessageUnregister:
				h.unregisterClient(msg.Client)
			case MessageChat:
				h.handleChat(msg)
			default:
				log.Warnf("Received unknown message type: %s", msg.Type)
			}
		case <-h.done:
			log.Info("Hub is shutting down...")
			return
		}
	}
}

// Stop ends the Run loop. The message channel is never closed: client read
// pumps on hijacked websocket connections outlive the HTTP server's shutdown
// and may still queue messages, which are rejected rather than panicking.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// QueueMessage puts a message on the Hub's queue without blocking. Returns
// false when the Hub is stopped or the queue is full and the message was
// dropped.
func (h *Hub) QueueMessage(msg Message) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.messageChan <- msg:
		return true
	case <-h.done:
		return false
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	h.clientsMu.Lock()
	h.clients[client] = true
	h.clientsMu.Unlock()
	logrus.WithField("username", client.Username()).Info("Client registered to Hub")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	h.clientsMu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.clientsMu.Unlock()
	logrus.WithField("username", client.Username()).Info("Client unregistered from Hub")
}

// handleChat persists an inbound chat message and broadcasts it. Messages
// from clients with no authenticated session are dropped silently: no
// persistence, no broadcast, no error back to the sender.
func (h *Hub) handleChat(msg Message) {
	client := msg.Client
	if client == nil {
		return
	}
	username := client.Username()
	if username == "" {
		logrus.Debug("Hub: dropping chat message from unauthenticated client")
		return
	}
	logCtx := logrus.WithField("username", username)

	// Background context: persistence must not be tied to the upgrade request.
	saved, err := h.chatService.SaveMessage(context.Background(), username, string(msg.RawData))
	if err != nil {
		logCtx.WithError(err).Error("Failed to persist chat message, not broadcasting")
		return
	}

	payload := Broadcast{
		Username: saved.Username,
		Message:  saved.Message,
		Time:     time.Now().Format("15:04"),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal chat broadcast")
		return
	}
	h.broadcast(data)
}

// broadcast writes the message to every connected client's send queue,
// including the sender. Sends are non-blocking: a client with a full queue
// misses the message rather than stalling the loop.
func (h *Hub) broadcast(message []byte) {
	h.clientsMu.RLock()
	recipients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		recipients = append(recipients, client)
	}
	h.clientsMu.RUnlock()

	for _, client := range recipients {
		select {
		case client.send <- message:
		default:
			logrus.WithField("username", client.Username()).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}
