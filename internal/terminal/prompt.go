package terminal

import (
	"bufio"
	"context"
	"io"
	"strings"

	"chat-session/internal/protocol"

	"github.com/rs/zerolog/log"
)

const (
	cmdQuit = "/quit"
	cmdWho  = "/who"
)

// Chat is the session surface the prompt drives.
type Chat interface {
	Send(msg protocol.ChatMessage) error
	Disconnect()
	Roster() []protocol.RosterEntry
	ConnectedCount() int
}

type Prompt struct {
	in       io.Reader
	chat     Chat
	renderer *Renderer
	username string
}

func NewPrompt(in io.Reader, chat Chat, renderer *Renderer, username string) *Prompt {
	return &Prompt{in: in, chat: chat, renderer: renderer, username: username}
}

// Run reads lines until /quit, end of input or ctx ends, then disconnects.
// Other lines are sent as chat messages; /who prints the roster.
func (p *Prompt) Run(ctx context.Context) error {
	defer p.chat.Disconnect()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case line := <-lines:
			if p.handle(line) {
				return nil
			}
		}
	}
}

// handle reports whether the prompt should stop.
func (p *Prompt) handle(line string) bool {
	text := strings.TrimSpace(line)
	switch text {
	case "":
		return false
	case cmdQuit:
		return true
	case cmdWho:
		p.renderer.Roster(p.chat.Roster(), p.chat.ConnectedCount())
		return false
	}

	if err := p.chat.Send(protocol.ChatMessage{Username: p.username, Text: text}); err != nil {
		log.Debug().Err(err).Msg("[terminal] send failed")
	}
	return false
}
