package websocket

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"chat-session/internal/session"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var _ session.Dialer = (*Dialer)(nil)

// Dialer opens client connections to a relay.
type Dialer struct {
	dialer       *websocket.Dialer
	pingInterval time.Duration
}

func NewDialer() *Dialer {
	return &Dialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		pingInterval: pingInterval,
	}
}

func (d *Dialer) Dial(ctx context.Context, url string) (session.Conn, error) {
	conn, res, err := d.dialer.DialContext(ctx, url, nil)
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
	if err != nil {
		if res != nil {
			return nil, fmt.Errorf("websocket handshake: %w (status %d)", err, res.StatusCode)
		}
		return nil, fmt.Errorf("websocket handshake: %w", err)
	}

	cc := &ClientConn{conn: conn, done: make(chan struct{})}
	cc.conn.SetReadLimit(readLimit)
	if d.pingInterval > 0 {
		go cc.keepAlive(d.pingInterval)
	}
	return cc, nil
}

// ClientConn is the client end of a relay connection. Reads must come from
// a single goroutine; writes and Close may be called concurrently.
type ClientConn struct {
	conn *websocket.Conn

	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	isClosed  bool
}

func (c *ClientConn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *ClientConn) WriteMessage(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed {
		return net.ErrClosed
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a normal closure frame and releases the socket.
func (c *ClientConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		c.isClosed = true
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.mu.Unlock()

		err = c.conn.Close()
	})
	return err
}

func (c *ClientConn) keepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.isClosed {
				c.mu.Unlock()
				return
			}
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.mu.Unlock()

			if err != nil {
				log.Debug().Err(err).Msg("[session] ping failed")
				return
			}
		}
	}
}
