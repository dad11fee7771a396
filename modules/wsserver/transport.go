package wsserver

import (
	"strings"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// wsTransport adapts a Fiber websocket connection to the chat.Transport
// contract: a read pump feeds inbound text frames into a line channel, and
// writes are serialized so keepalive pings and broadcasts never interleave
// frames. Pong frames are consumed by the websocket layer and not surfaced.
type wsTransport struct {
	conn      *websocket.Conn
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once
	writeMu   sync.Mutex
}

func newWSTransport(conn *websocket.Conn) *wsTransport {
	return &wsTransport{
		conn:  conn,
		lines: make(chan string),
		done:  make(chan struct{}),
	}
}

// readPump moves inbound text frames onto the line channel until the
// connection fails or the transport is closed, then closes the channel.
// Run it in its own goroutine.
func (t *wsTransport) readPump() {
	defer close(t.lines)
	for {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		line := strings.TrimRight(string(data), "\r\n")
		select {
		case t.lines <- line:
		case <-t.done:
			return
		}
	}
}

// Close tears down the connection and unblocks the read pump. Safe to call
// more than once.
func (t *wsTransport) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		_ = t.conn.Close()
	})
}

func (t *wsTransport) Lines() <-chan string {
	return t.lines
}

func (t *wsTransport) Send(payload []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, payload)
}

func (t *wsTransport) Ping() error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteMessage(websocket.PingMessage, []byte("ping"))
}
