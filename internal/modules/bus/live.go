package bus

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// browser clients connect from the app origin; CORS already gates the
	// HTTP surface, so the upgrade accepts any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveFeed streams arrival snapshots for a line over a websocket, polling
// the upstream on a fixed interval. One poller goroutine per connection.
type LiveFeed struct {
	service      *Service
	pollInterval time.Duration
	pingPeriod   time.Duration
}

func NewLiveFeed(service *Service, pollInterval time.Duration) *LiveFeed {
	return &LiveFeed{service: service, pollInterval: pollInterval, pingPeriod: pingPeriod}
}

func (f *LiveFeed) Handle(c *gin.Context) {
	lineCode := c.Param("lineCode")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("bus live upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	// pings keep the read deadline moving for clients that never write;
	// browser websockets cannot send pings themselves
	pings := time.NewTicker(f.pingPeriod)
	defer pings.Stop()

	// first snapshot immediately, then on every tick
	if !f.push(c, conn, lineCode) {
		return
	}
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-pings.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			if !f.push(c, conn, lineCode) {
				return
			}
		}
	}
}

func (f *LiveFeed) push(c *gin.Context, conn *websocket.Conn, lineCode string) bool {
	arrivals, err := f.service.GetArrivals(c.Request.Context(), lineCode)

	payload := gin.H{
		"type":      "arrivals",
		"lineCode":  lineCode,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err != nil {
		payload["type"] = "error"
		payload["error"] = err.Error()
	} else {
		payload["arrivals"] = arrivals
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(payload); err != nil {
		return false
	}
	return true
}
