package websocket

import "chat-session/internal/protocol"

// inboundFrame is a raw frame read from one peer, queued for the hub.
type inboundFrame struct {
	client *Client
	data   []byte
}

// identity is what a peer announced about itself. A peer with an empty
// username is connected but not yet part of the roster.
type identity struct {
	username    string
	description string
}

func (i identity) entry() protocol.RosterEntry {
	return protocol.RosterEntry{Username: i.username, Description: i.description}
}
