package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"chat-session/internal/protocol"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotConnected = errors.New("session: not connected")
	ErrAborted      = errors.New("session: connect aborted by a newer connect or disconnect")
)

type Config struct {
	Variant Variant
	// URL is the WebSocket endpoint, see endpoint.Resolve.
	URL      string
	Dialer   Dialer
	Roster   RosterFetcher
	Observer Observer
	Metrics  *Metrics
}

// Session owns at most one transport handle and translates between wire
// frames and the chat state kept by its Machine.
type Session struct {
	variant Variant
	url     string
	dialer  Dialer
	roster  RosterFetcher
	metrics *Metrics

	mu      sync.Mutex
	machine *Machine
	handle  *Handle
	gen     uint64
}

// Handle is one open transport connection of a Session.
type Handle struct {
	id       string
	gen      uint64
	conn     Conn
	identity Identity
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	done     chan struct{}
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Identity() Identity {
	return h.identity
}

// Done is closed once the connection is released and the goroutines
// serving it have exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func New(cfg Config) *Session {
	return &Session{
		variant: cfg.Variant,
		url:     cfg.URL,
		dialer:  cfg.Dialer,
		roster:  cfg.Roster,
		metrics: cfg.Metrics,
		machine: NewMachine(cfg.Observer, cfg.Metrics),
	}
}

// Connect opens a transport for the given identity. Any handle still open
// is released first. The roster is fetched in the background and applied
// whenever it arrives.
func (s *Session) Connect(ctx context.Context, id Identity) (*Handle, error) {
	norm, err := id.Validate(s.variant)
	if err != nil {
		return nil, err
	}

	s.Disconnect()

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.machine.Apply(Dialing{})
	s.mu.Unlock()

	conn, err := s.dialer.Dial(ctx, s.url)
	if err != nil {
		s.dispatch(gen, Closed{Err: err})
		log.Warn().Err(err).Str("url", s.url).Msg("[session] dial failed")
		return nil, fmt.Errorf("dial %s: %w", s.url, err)
	}

	fetchCtx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		id:       uuid.NewString(),
		gen:      gen,
		conn:     conn,
		identity: norm,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		cancel()
		_ = conn.Close()
		return nil, ErrAborted
	}
	s.handle = h
	s.machine.Apply(Opened{})
	s.mu.Unlock()

	log.Debug().Str("handle", h.id).Str("username", norm.Username).Msg("[session] connected")

	if s.variant.announcesIdentity() {
		s.announce(h)
	}

	h.wg.Add(1)
	go s.readLoop(h)
	if s.roster != nil {
		h.wg.Add(1)
		go s.fetchRoster(fetchCtx, h)
	}
	go func() {
		h.wg.Wait()
		close(h.done)
	}()

	return h, nil
}

// Send transmits one chat message. Messages with an empty username or text
// are dropped silently. Failures are recorded and returned but never change
// the connection state.
func (s *Session) Send(msg protocol.ChatMessage) error {
	if strings.TrimSpace(msg.Username) == "" || strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	s.mu.Lock()
	h := s.handle
	if h == nil {
		s.machine.Record(ErrNotConnected)
		s.mu.Unlock()
		return ErrNotConnected
	}
	s.mu.Unlock()

	data, err := protocol.EncodeChat(msg)
	if err != nil {
		return s.record(err)
	}
	if err := h.conn.WriteMessage(data); err != nil {
		return s.record(fmt.Errorf("send message: %w", err))
	}
	s.metrics.observeFrame(directionOut, kindChat)
	return nil
}

// Disconnect releases the open handle, if any, and waits for its
// goroutines to exit. Calling it without an open handle does nothing.
func (s *Session) Disconnect() {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.gen++
	s.machine.Apply(Closed{})
	s.mu.Unlock()

	if h == nil {
		return
	}

	h.cancel()
	if err := h.conn.Close(); err != nil {
		log.Debug().Err(err).Str("handle", h.id).Msg("[session] close transport")
	}
	<-h.done
	log.Debug().Str("handle", h.id).Msg("[session] disconnected")
}

func (s *Session) announce(h *Handle) {
	data, err := protocol.EncodeUserInfo(h.identity.Username, h.identity.Description)
	if err != nil {
		s.dispatch(h.gen, TransportFailed{Err: err})
		return
	}
	if err := h.conn.WriteMessage(data); err != nil {
		s.dispatch(h.gen, TransportFailed{Err: fmt.Errorf("announce identity: %w", err)})
		return
	}
	s.metrics.observeFrame(directionOut, kindUserInfo)
}

func (s *Session) readLoop(h *Handle) {
	defer h.wg.Done()

	for {
		data, err := h.conn.ReadMessage()
		if err != nil {
			s.release(h, err)
			return
		}
		s.dispatch(h.gen, FrameReceived{Data: data})
	}
}

func (s *Session) fetchRoster(ctx context.Context, h *Handle) {
	defer h.wg.Done()

	roster, err := s.roster.FetchRoster(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("handle", h.id).Msg("[session] roster fetch failed")
	}
	s.dispatch(h.gen, RosterLoaded{Roster: roster, Err: err})
}

// release drops a handle whose transport failed on its own.
func (s *Session) release(h *Handle, cause error) {
	s.mu.Lock()
	if s.handle != h {
		s.mu.Unlock()
		return
	}
	s.handle = nil
	h.cancel()
	s.machine.Apply(Closed{Err: cause})
	s.mu.Unlock()

	_ = h.conn.Close()
	log.Info().Err(cause).Str("handle", h.id).Msg("[session] connection closed")
}

func (s *Session) dispatch(gen uint64, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.machine.Apply(ev)
}

func (s *Session) record(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.Record(err)
	return err
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.State()
}

func (s *Session) Messages() []protocol.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Messages()
}

func (s *Session) Roster() []protocol.RosterEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Roster()
}

func (s *Session) ConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.ConnectedCount()
}

func (s *Session) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Errors()
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.LastError()
}

func (s *Session) Variant() Variant {
	return s.variant
}
