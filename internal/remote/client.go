// ABOUTME: Websocket client for a deck's remote surface
// ABOUTME: Reads the hello, streams state updates and sends gestures
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Resonate-Protocol/cuedeck/internal/transport"
)

// Client is a connection to one deck
type Client struct {
	conn  *websocket.Conn
	hello Hello

	// States receives every state push; old states are dropped when the
	// reader falls behind
	States chan State

	// Errors receives messages the deck rejected
	Errors chan string

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to url (ws://host:port/cuedeck) and waits for the hello
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	c := &Client{
		conn:   conn,
		States: make(chan State, 16),
		Errors: make(chan string, 16),
		done:   make(chan struct{}),
	}

	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake failed: %w", err)
	}

	go c.readMessages()
	return c, nil
}

func (c *Client) handshake() error {
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	defer c.conn.SetReadDeadline(time.Time{})

	var msg Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("failed to read hello: %w", err)
	}
	if msg.Type != TypeHello {
		return fmt.Errorf("expected %s, got %s", TypeHello, msg.Type)
	}
	return decodePayload(msg.Payload, &c.hello)
}

// Hello returns the deck's identity
func (c *Client) Hello() Hello {
	return c.hello
}

// Send applies a gesture on the deck
func (c *Client) Send(g transport.Gesture) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := c.conn.WriteJSON(Message{Type: TypeGesture, Payload: g}); err != nil {
		return fmt.Errorf("failed to send gesture: %w", err)
	}
	return nil
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close disconnects
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// readMessages reads and routes incoming messages
func (c *Client) readMessages() {
	defer close(c.done)
	defer close(c.States)
	defer close(c.Errors)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Remote read error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Failed to parse remote message: %v", err)
			continue
		}

		switch msg.Type {
		case TypeState:
			var st State
			if err := decodePayload(msg.Payload, &st); err != nil {
				continue
			}
			select {
			case c.States <- st:
			default:
			}
		case TypeError:
			var e Error
			if err := decodePayload(msg.Payload, &e); err != nil {
				continue
			}
			select {
			case c.Errors <- e.Message:
			default:
			}
		}
	}
}
