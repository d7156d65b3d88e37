// Package endpoint derives the relay addresses a session talks to from the
// location of the page hosting the chat, the way a browser client would.
package endpoint

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

const (
	WebSocketPath = "/ws"
	RosterPath    = "/api/v1/chat"
)

// Location is the hosting page's scheme, host name and port.
type Location struct {
	Scheme   string
	Hostname string
	Port     string
}

// Overrides replace the page host or port for the WebSocket endpoint
// (VITE_WS_HOST and VITE_WS_PORT).
type Overrides struct {
	Host string
	Port string
}

type Endpoints struct {
	WebSocket string
	Roster    string
}

func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, fmt.Errorf("parse page url: %w", err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return Location{}, fmt.Errorf("parse page url %q: scheme and host are required", raw)
	}
	return Location{
		Scheme:   strings.ToLower(u.Scheme),
		Hostname: u.Hostname(),
		Port:     u.Port(),
	}, nil
}

func (l Location) secure() bool {
	return l.Scheme == "https" || l.Scheme == "wss"
}

// Origin is scheme://host[:port] of the page itself.
func (l Location) Origin() string {
	scheme := "http"
	if l.secure() {
		scheme = "https"
	}
	return scheme + "://" + hostPort(l.Hostname, l.Port)
}

// Resolve picks wss for secure pages and ws otherwise, applies the
// overrides, and places the roster resource on the page origin.
func Resolve(loc Location, o Overrides) Endpoints {
	scheme := "ws"
	if loc.secure() {
		scheme = "wss"
	}

	host := loc.Hostname
	if h := strings.TrimSpace(o.Host); h != "" {
		host = h
	}
	port := loc.Port
	if p := strings.TrimSpace(o.Port); p != "" {
		port = p
	}

	return Endpoints{
		WebSocket: scheme + "://" + hostPort(host, port) + WebSocketPath,
		Roster:    loc.Origin() + RosterPath,
	}
}

func hostPort(host, port string) string {
	if port == "" {
		if strings.Contains(host, ":") {
			return "[" + host + "]"
		}
		return host
	}
	return net.JoinHostPort(host, port)
}
