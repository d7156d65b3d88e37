package session

import (
	"errors"
	"fmt"

	"chat-session/internal/protocol"
)

// ErrDisconnected is recorded when a connection attempt fails or an open
// connection goes away on its own.
var ErrDisconnected = errors.New("session: disconnected")

// Machine holds the state of one session and applies events to it. It does
// no I/O and is not safe for concurrent use; Session serialises access.
type Machine struct {
	state    State
	messages []protocol.ChatMessage
	roster   []protocol.RosterEntry
	count    int
	errs     []error

	observer Observer
	metrics  *Metrics
}

func NewMachine(observer Observer, metrics *Metrics) *Machine {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Machine{
		state:    Disconnected,
		roster:   []protocol.RosterEntry{},
		observer: observer,
		metrics:  metrics,
	}
}

// Apply reacts to one event.
func (m *Machine) Apply(ev Event) {
	switch ev := ev.(type) {
	case Dialing:
		if m.state == Disconnected {
			m.transition(Connecting)
		}
	case Opened:
		if m.state == Connecting {
			m.transition(Connected)
		}
	case FrameReceived:
		if m.state != Connected {
			return
		}
		m.applyFrame(ev.Data)
	case TransportFailed:
		if ev.Err != nil {
			m.Record(ev.Err)
		}
	case Closed:
		if m.state == Disconnected {
			return
		}
		if ev.Err != nil {
			m.Record(fmt.Errorf("%w: %v", ErrDisconnected, ev.Err))
		}
		if m.state == Connected {
			m.replaceRoster(nil)
		}
		m.transition(Disconnected)
	case RosterLoaded:
		if m.state != Connected {
			return
		}
		if ev.Err != nil {
			m.Record(fmt.Errorf("fetch roster: %w", ev.Err))
			m.replaceRoster(nil)
			return
		}
		if ev.Roster.HasUsers {
			m.replaceRoster(ev.Roster.Entries)
			return
		}
		m.count = ev.Roster.Count
		m.observer.CountChanged(m.count)
	}
}

func (m *Machine) applyFrame(data []byte) {
	in, err := protocol.DecodeInbound(data)
	if err != nil {
		m.metrics.observeFrame(directionIn, kindMalformed)
		m.Record(err)
		return
	}

	switch in := in.(type) {
	case protocol.UserList:
		m.metrics.observeFrame(directionIn, kindUserList)
		m.replaceRoster(in.Users)
	case protocol.ChatMessage:
		m.metrics.observeFrame(directionIn, kindChat)
		m.messages = append(m.messages, in)
		m.observer.MessageAppended(in)
	}
}

func (m *Machine) replaceRoster(users []protocol.RosterEntry) {
	roster := make([]protocol.RosterEntry, len(users))
	copy(roster, users)
	m.roster = roster
	m.count = len(roster)
	m.observer.RosterReplaced(m.Roster())
}

func (m *Machine) transition(to State) {
	from := m.state
	m.state = to
	m.observer.StateChanged(from, to)
}

// Record stores a non-fatal error without changing state.
func (m *Machine) Record(err error) {
	m.errs = append(m.errs, err)
	m.observer.ErrorRecorded(err)
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Messages() []protocol.ChatMessage {
	out := make([]protocol.ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

func (m *Machine) Roster() []protocol.RosterEntry {
	out := make([]protocol.RosterEntry, len(m.roster))
	copy(out, m.roster)
	return out
}

// ConnectedCount is the roster size, or the bare count reported by a
// basic roster resource when no user_list arrived after it.
func (m *Machine) ConnectedCount() int {
	return m.count
}

func (m *Machine) Errors() []error {
	out := make([]error, len(m.errs))
	copy(out, m.errs)
	return out
}

func (m *Machine) LastError() error {
	if len(m.errs) == 0 {
		return nil
	}
	return m.errs[len(m.errs)-1]
}
