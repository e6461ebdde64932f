package web

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedBuffer     = 32
	feedWriteWait  = 10 * time.Second
	feedPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// feedHandler streams moderation events to a websocket client as JSON
// text frames
func (s *Server) feedHandler(c *gin.Context) {
	if s.feed == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Feed Disabled",
			"message": "The moderation feed is not enabled.",
		})
		return
	}
	if !s.feedAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": "A valid feed token is required.",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(fmt.Sprintf("Websocket upgrade failed: %v", err), "WebServer")
		return
	}
	defer conn.Close()

	events, cancel := s.feed.Subscribe(feedBuffer)
	defer cancel()

	// the client never sends data, so reads only detect a close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingPeriod)
	defer ping.Stop()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(feedWriteWait))
				return
			}
			data, err := e.Encode()
			if err != nil {
				logger.Error(fmt.Sprintf("Failed to encode %s event: %v", e.Type, err), "WebServer")
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Debug(fmt.Sprintf("Feed client dropped: %v", err), "WebServer")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// feedAuthorized accepts the token as a bearer credential or as the
// token query parameter
func (s *Server) feedAuthorized(c *gin.Context) bool {
	token := c.Query("token")
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	}
	if token == "" || s.feedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.feedToken)) == 1
}
