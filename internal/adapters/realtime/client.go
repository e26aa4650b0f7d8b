package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

const (
	eventSubscribeVoting = "subscribe-voting"
	eventSubscribeBlog   = "subscribe-blog"
	eventJoinRoom        = "join-room"
)

type client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]struct{}
}

// readPump handles subscription messages until the connection fails.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.WithError(err).Debug("websocket closed unexpectedly")
			}
			return
		}

		var msg Frame
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		var room string
		switch msg.Event {
		case eventSubscribeVoting:
			room = domain.RoomVoting
		case eventSubscribeBlog:
			room = domain.RoomBlog
		case eventJoinRoom:
			room = msg.Room
		default:
			continue
		}

		if c.hub.join(c, room) {
			c.hub.log.WithField("room", room).Debug("websocket client joined room")
		}
	}
}

// writePump is the only writer on the connection.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
