package session

import "chat-session/internal/protocol"

//go:generate mockgen -source=observer.go -destination=mocks/observer_mock.go -package=mocks

// Observer is told about every visible change of a session. Calls are made
// while the session lock is held, so implementations must not call back
// into the session.
type Observer interface {
	StateChanged(from, to State)
	MessageAppended(msg protocol.ChatMessage)
	RosterReplaced(roster []protocol.RosterEntry)
	// CountChanged reports a connected count that arrived without a user
	// list. RosterReplaced already implies len(roster).
	CountChanged(count int)
	ErrorRecorded(err error)
}

type nopObserver struct{}

func (nopObserver) StateChanged(State, State) {}
func (nopObserver) MessageAppended(protocol.ChatMessage) {}
func (nopObserver) RosterReplaced([]protocol.RosterEntry) {}
func (nopObserver) CountChanged(int) {}
func (nopObserver) ErrorRecorded(error) {}
