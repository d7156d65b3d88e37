package session_test

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"chat-session/internal/protocol"
	"chat-session/internal/session"
)

type fakeConn struct {
	inbound   chan []byte
	closed    chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	written  []string
	writeErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case data, ok := <-c.inbound:
		if !ok {
			return nil, io.EOF
		}
		return data, nil
	case <-c.closed:
		return nil, net.ErrClosed
	}
}

func (c *fakeConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	if c.isClosed() {
		return net.ErrClosed
	}
	c.written = append(c.written, string(data))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) push(frame string) {
	c.inbound <- []byte(frame)
}

// remoteClose makes the next read fail as if the peer hung up.
func (c *fakeConn) remoteClose() {
	close(c.inbound)
}

func (c *fakeConn) frames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.written))
	copy(out, c.written)
	return out
}

func (c *fakeConn) failWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	urls  []string
	err   error
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (session.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.urls = append(d.urls, url)
	if d.err != nil {
		return nil, d.err
	}
	if len(d.conns) == 0 {
		return nil, errors.New("no connection available")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.urls)
}

type rosterFunc func(ctx context.Context) (protocol.Roster, error)

func (f rosterFunc) FetchRoster(ctx context.Context) (protocol.Roster, error) {
	return f(ctx)
}

// recordingObserver keeps every notification for later assertions.
type recordingObserver struct {
	mu          sync.Mutex
	transitions [][2]session.State
	messages    []protocol.ChatMessage
	rosters     [][]protocol.RosterEntry
	counts      []int
	errs        []error
}

func (o *recordingObserver) StateChanged(from, to session.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, [2]session.State{from, to})
}

func (o *recordingObserver) MessageAppended(msg protocol.ChatMessage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
}

func (o *recordingObserver) RosterReplaced(roster []protocol.RosterEntry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rosters = append(o.rosters, roster)
}

func (o *recordingObserver) CountChanged(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counts = append(o.counts, count)
}

func (o *recordingObserver) ErrorRecorded(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) countsSeen() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.counts...)
}

func (o *recordingObserver) countTransitions(from, to session.State) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, tr := range o.transitions {
		if tr[0] == from && tr[1] == to {
			n++
		}
	}
	return n
}

// blockingDial returns a dialer that hands out conn only after release is
// closed. entered is closed once the dial is in flight.
func blockingDial(conn *fakeConn) (d session.DialerFunc, entered, release chan struct{}) {
	entered = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	d = func(ctx context.Context, url string) (session.Conn, error) {
		once.Do(func() { close(entered) })
		<-release
		return conn, nil
	}
	return d, entered, release
}
