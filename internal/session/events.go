package session

import "chat-session/internal/protocol"

// Event is one transport or user reaction fed to a Machine.
type Event interface {
	event()
}

// Dialing is emitted when a connect attempt starts.
type Dialing struct{}

// Opened is emitted once the transport handshake completed.
type Opened struct{}

// FrameReceived carries one inbound text frame.
type FrameReceived struct {
	Data []byte
}

// TransportFailed reports an advisory transport error. It does not close
// the connection by itself.
type TransportFailed struct {
	Err error
}

// Closed is emitted when the transport is gone, either because it failed
// to open, the peer closed it, or the session disconnected.
type Closed struct {
	Err error
}

// RosterLoaded carries the result of the auxiliary roster fetch.
type RosterLoaded struct {
	Roster protocol.Roster
	Err    error
}

func (Dialing) event() {}
func (Opened) event() {}
func (FrameReceived) event() {}
func (TransportFailed) event() {}
func (Closed) event() {}
func (RosterLoaded) event() {}
