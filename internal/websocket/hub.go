package websocket

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"chat-session/internal/protocol"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Hub is the single chat room of the relay. Run owns every mutation;
// Roster may be read from any goroutine.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Inbound    chan inboundFrame

	done     chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	clients map[string]*Client
	seq     uint64
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Inbound:    make(chan inboundFrame, 64),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case frame := <-h.Inbound:
			h.handle(frame)
		}
	}
}

// Done is closed once Run has returned and every peer was released.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Roster lists identified peers in the order they first announced themselves.
func (h *Hub) Roster() []protocol.RosterEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rosterLocked()
}

func (h *Hub) rosterLocked() []protocol.RosterEntry {
	identified := lo.Filter(lo.Values(h.clients), func(c *Client, _ int) bool {
		return c.identity.username != ""
	})
	slices.SortFunc(identified, func(a, b *Client) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return lo.Map(identified, func(c *Client, _ int) protocol.RosterEntry {
		return c.identity.entry()
	})
}

func (h *Hub) register(cl *Client) bool {
	select {
	case h.Register <- cl:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(cl *Client) {
	select {
	case h.Unregister <- cl:
	case <-h.done:
	}
}

func (h *Hub) submit(f inboundFrame) bool {
	select {
	case h.Inbound <- f:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) add(cl *Client) {
	h.mu.Lock()
	h.clients[cl.ID] = cl
	h.mu.Unlock()

	incConnections()
	log.Debug().Str("client", cl.ID).Msg("[relay] client registered")
}

func (h *Hub) remove(cl *Client) {
	h.mu.Lock()
	if _, ok := h.clients[cl.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl.ID)
	close(cl.send)
	name := cl.identity.username
	h.mu.Unlock()

	decConnections()
	if name == "" {
		return
	}
	log.Info().Str("client", cl.ID).Str("username", name).Msg("[relay] user left")
	h.broadcastChat(protocol.SystemUsername, name+" has left the chat.")
	h.broadcastRoster()
}

func (h *Hub) handle(f inboundFrame) {
	frame, err := protocol.DecodeClientFrame(f.data)
	if err != nil {
		countFrame(frameMalformed)
		log.Debug().Err(err).Str("client", f.client.ID).Msg("[relay] dropping frame")
		return
	}

	switch frame.Type {
	case protocol.TypeUserInfo:
		countFrame(frameUserInfo)
		name, ok := h.identify(f.client, frame)
		if !ok {
			return
		}
		log.Info().Str("client", f.client.ID).Str("username", name).Msg("[relay] user joined")
		h.broadcastChat(protocol.SystemUsername, name+" has joined the chat!")
		h.broadcastRoster()
	case protocol.TypeUpdateInfo:
		countFrame(frameUpdateInfo)
		if _, ok := h.identify(f.client, frame); !ok {
			return
		}
		h.broadcastRoster()
	default:
		countFrame(frameChat)
		text := sanitizeText(frame.Text)
		if text == "" {
			return
		}
		name := sanitizeUsername(frame.Username)
		if name == "" {
			name = h.usernameOf(f.client)
		}
		h.broadcastChat(name, text)
	}
}

// identify stores the announced identity of a still registered peer.
func (h *Hub) identify(cl *Client, frame protocol.ClientFrame) (string, bool) {
	name := sanitizeUsername(frame.Username)
	if name == "" {
		log.Debug().Str("client", cl.ID).Msg("[relay] ignoring identity without username")
		return "", false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl.ID]; !ok {
		return "", false
	}
	if cl.identity.username == "" {
		h.seq++
		cl.seq = h.seq
	}
	cl.identity = identity{username: name, description: sanitizeText(frame.Description)}
	return name, true
}

func (h *Hub) usernameOf(cl *Client) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cl.identity.username
}

func (h *Hub) broadcastChat(username, text string) {
	data, err := protocol.EncodeChat(protocol.ChatMessage{Username: username, Text: text})
	if err != nil {
		log.Error().Err(err).Msg("[relay] encode chat message")
		return
	}
	h.broadcast(data)
}

func (h *Hub) broadcastRoster() {
	h.mu.RLock()
	roster := h.rosterLocked()
	h.mu.RUnlock()

	setPeers(len(roster))
	data, err := protocol.EncodeUserList(roster)
	if err != nil {
		log.Error().Err(err).Msg("[relay] encode user list")
		return
	}
	h.broadcast(data)
}

// broadcast queues data for every peer. Peers whose buffer is full are
// removed like any other leaving peer.
func (h *Hub) broadcast(data []byte) {
	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for _, cl := range h.clients {
		select {
		case cl.send <- data:
			delivered++
		default:
			slow = append(slow, cl)
		}
	}
	h.mu.RUnlock()

	if delivered > 0 {
		addDelivered(delivered)
	}
	for _, cl := range slow {
		log.Warn().Str("client", cl.ID).Msg("[relay] send buffer full, dropping client")
		h.remove(cl)
	}
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		for id, cl := range h.clients {
			delete(h.clients, id)
			close(cl.send)
			decConnections()
		}
		h.mu.Unlock()
		setPeers(0)
	})
}
