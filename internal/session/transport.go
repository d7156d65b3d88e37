package session

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"chat-session/internal/protocol"
)

// Conn is one open full-duplex, message framed transport.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type DialerFunc func(ctx context.Context, url string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, url string) (Conn, error) {
	return f(ctx, url)
}

type RosterFetcher interface {
	FetchRoster(ctx context.Context) (protocol.Roster, error)
}

// HTTPRosterClient reads the roster resource served next to the relay.
type HTTPRosterClient struct {
	client *http.Client
	url    string
}

func NewHTTPRosterClient(client *http.Client, url string) *HTTPRosterClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRosterClient{client: client, url: url}
}

func (c *HTTPRosterClient) FetchRoster(ctx context.Context) (protocol.Roster, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return protocol.Roster{}, fmt.Errorf("roster request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return protocol.Roster{}, fmt.Errorf("roster request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return protocol.Roster{}, fmt.Errorf("roster request: unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return protocol.Roster{}, fmt.Errorf("roster body: %w", err)
	}
	return protocol.DecodeRoster(body)
}
