package terminal

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"chat-session/internal/protocol"

	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	mu           sync.Mutex
	sent         []protocol.ChatMessage
	disconnected int
	roster       []protocol.RosterEntry
}

func (f *fakeChat) Send(msg protocol.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChat) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected++
}

func (f *fakeChat) Roster() []protocol.RosterEntry {
	return f.roster
}

func (f *fakeChat) ConnectedCount() int {
	return len(f.roster)
}

func TestPromptSendsLinesUntilQuit(t *testing.T) {
	req := require.New(t)
	chat := &fakeChat{}
	var out bytes.Buffer
	in := strings.NewReader("hello\n\n  spaced out  \n/quit\nnever sent\n")

	err := NewPrompt(in, chat, NewRenderer(&out, false), "Nova").Run(context.Background())
	req.NoError(err)

	req.Equal([]protocol.ChatMessage{
		{Username: "Nova", Text: "hello"},
		{Username: "Nova", Text: "spaced out"},
	}, chat.sent)
	req.Equal(1, chat.disconnected)
}

func TestPromptWhoPrintsRoster(t *testing.T) {
	req := require.New(t)
	chat := &fakeChat{roster: []protocol.RosterEntry{{Username: "Nova", Description: "star"}}}
	var out bytes.Buffer

	err := NewPrompt(strings.NewReader("/who\n"), chat, NewRenderer(&out, false), "Nova").Run(context.Background())
	req.NoError(err)

	req.Empty(chat.sent)
	req.Contains(out.String(), "Connected Clients: 1")
	req.Equal(1, chat.disconnected)
}

func TestPromptStopsOnContext(t *testing.T) {
	chat := &fakeChat{}
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewPrompt(pr, chat, NewRenderer(io.Discard, false), "Nova").Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("prompt did not stop")
	}
	require.Equal(t, 1, chat.disconnected)
}
