package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	readLimit    = 512 * 1024
	sendBuffer   = 32
)

// Client is one peer connected to the relay.
type Client struct {
	Conn *websocket.Conn
	ID   string

	send     chan []byte
	done     chan struct{} // closed when readMessage returns
	mu       sync.Mutex    // guards Conn writes and isClosed
	isClosed bool

	// seq orders peers by first identification; both are owned by the hub.
	seq      uint64
	identity identity
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn: conn,
		ID:   uuid.NewString(),
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (cl *Client) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			cl.mu.Unlock()

			if err != nil {
				log.Debug().Err(err).Str("client", cl.ID).Msg("[relay] ping failed")
				return
			}
		}
	}
}

func (cl *Client) writeMessage() {
	defer cl.close()

	for {
		select {
		case <-cl.done:
			return
		case msg, ok := <-cl.send:
			if !ok {
				cl.mu.Lock()
				if !cl.isClosed {
					_ = cl.Conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
						time.Now().Add(writeWait))
				}
				cl.mu.Unlock()
				return
			}

			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			_ = cl.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := cl.Conn.WriteMessage(websocket.TextMessage, msg)
			cl.mu.Unlock()

			if err != nil {
				log.Warn().Err(err).Str("client", cl.ID).Msg("[relay] write failed")
				return
			}
		}
	}
}

func (cl *Client) readMessage(hub *Hub) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("client", cl.ID).Msg("[relay] recovered in read loop")
		}
		close(cl.done)
		hub.unregister(cl)
		cl.close()
		log.Debug().Str("client", cl.ID).Msg("[relay] client disconnected")
	}()

	cl.Conn.SetReadLimit(readLimit)

	for {
		_, message, err := cl.Conn.ReadMessage()
		if err != nil {
			if isExpectedClose(err) {
				break
			}
			log.Warn().Err(err).Str("client", cl.ID).Msg("[relay] read failed")
			break
		}

		if !hub.submit(inboundFrame{client: cl, data: message}) {
			break
		}
	}
}

func (cl *Client) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.isClosed {
		return
	}
	cl.isClosed = true
	_ = cl.Conn.Close()
}

func isExpectedClose(err error) bool {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return closeErr.Code == websocket.CloseNormalClosure ||
			closeErr.Code == websocket.CloseGoingAway ||
			closeErr.Code == websocket.CloseNoStatusReceived
	}
	return false
}
