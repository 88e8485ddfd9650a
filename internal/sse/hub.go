package sse

import (
	"bytes"
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one frame of the stream. ID is the hub sequence number in decimal,
// empty for frames that are not replayable (connected, keepalive).
type Event struct {
	ID        string      `json:"id,omitempty"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is one attached stream
type Client struct {
	ID           string
	EventChannel chan Event
	// nil accepts every type
	EventFilter map[string]bool
}

func (c *Client) wants(eventType string) bool {
	return c.EventFilter == nil || c.EventFilter[eventType]
}

type registration struct {
	client *Client
	after  uint64
	replay bool
}

// Hub fans events out to attached clients and keeps a short history so a
// reconnecting client can resume from its Last-Event-ID.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	// touched only by run
	seq     uint64
	history []Event

	broadcast  chan Event
	register   chan registration
	unregister chan string
	shutdown   chan struct{}
	wg         sync.WaitGroup
	stopOnce   sync.Once
	dropped    atomic.Int64
	now        func() time.Time
}

// NewHub creates a hub; call Start before registering clients
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		history:    make([]Event, 0, ReplayBufferSize),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan registration, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
		now:        time.Now,
	}
}

// Start launches the fan-out loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the fan-out loop and closes every client channel. It is
// idempotent.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case reg := <-h.register:
			h.mu.Lock()
			h.clients[reg.client.ID] = reg.client
			h.mu.Unlock()
			if reg.replay {
				h.replay(reg.client, reg.after)
			}

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				close(c.EventChannel)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.seq++
			evt.ID = strconv.FormatUint(h.seq, 10)
			h.remember(evt)

			h.mu.RLock()
			for _, c := range h.clients {
				if c.wants(evt.Type) {
					h.deliver(c, evt)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) remember(evt Event) {
	if len(h.history) == ReplayBufferSize {
		copy(h.history, h.history[1:])
		h.history = h.history[:ReplayBufferSize-1]
	}
	h.history = append(h.history, evt)
}

// replay queues remembered events with a sequence above after. Older events
// have left the window and are not recovered.
func (h *Hub) replay(c *Client, after uint64) {
	for _, evt := range h.history {
		seq, _ := strconv.ParseUint(evt.ID, 10, 64)
		if seq > after && c.wants(evt.Type) {
			h.deliver(c, evt)
		}
	}
}

// deliver never blocks; a full client buffer loses the event
func (h *Hub) deliver(c *Client, evt Event) {
	select {
	case c.EventChannel <- evt:
	default:
		h.dropped.Add(1)
	}
}

// Register attaches a client receiving the given event types, or all types
// when eventTypes is empty.
func (h *Hub) Register(eventTypes []string) *Client {
	return h.attach(eventTypes, 0, false)
}

// Resume attaches a client and first replays remembered events whose
// sequence is after lastEventID. An unparsable id replays nothing.
func (h *Hub) Resume(eventTypes []string, lastEventID string) *Client {
	after, err := strconv.ParseUint(lastEventID, 10, 64)
	return h.attach(eventTypes, after, err == nil)
}

func (h *Hub) attach(eventTypes []string, after uint64, replay bool) *Client {
	c := &Client{
		ID:           uuid.New().String(),
		EventChannel: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.EventFilter = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			c.EventFilter[t] = true
		}
	}

	select {
	case h.register <- registration{client: c, after: after, replay: replay}:
	case <-h.shutdown:
		close(c.EventChannel)
	}
	return c
}

// Unregister detaches a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for every interested client. The hub assigns the
// sequence id.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	evt := Event{
		Type:      eventType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- evt:
	default:
		h.dropped.Add(1)
	}
}

// Dropped counts events lost to full buffers
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// ClientCount returns the number of attached clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders evt as a text/event-stream frame. Frames without
// an ID omit the id field so they do not reset the client's Last-Event-ID.
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if evt.ID != "" {
		b.WriteString("id: " + evt.ID + "\n")
	}
	b.WriteString("event: " + evt.Type + "\n")
	b.WriteString("data: ")
	b.Write(data)
	b.WriteString("\n\n")
	return b.Bytes(), nil
}
