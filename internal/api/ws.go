package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sjtug/cerberus-solver/internal/util"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the HTTP layer
	},
}

// WSEvent is a server-to-client message on the solve stream.
type WSEvent struct {
	Type     string         `json:"type"`
	Attempts uint64         `json:"attempts,omitempty"`
	Result   *SolveResponse `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// progressFlushInterval bounds how often progress events go out; the
// solver's own report period is far finer than a client needs.
const progressFlushInterval = 250 * time.Millisecond

// handleSolveWS streams progress deltas during a search and finishes with
// the result, mirroring the message flow of a browser solver worker.
func (s *Server) handleSolveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		util.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req SolveRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(&WSEvent{Type: "error", Error: "invalid request"})
		return
	}

	// Workers report concurrently; accumulate atomically and let a single
	// writer goroutine own the connection.
	var attempts atomic.Uint64
	done := make(chan *WSEvent, 1)

	go func() {
		resp, err := s.solve(c.Request.Context(), req.Prefix, req.Difficulty, func(delta uint32) {
			attempts.Add(uint64(delta))
		})
		if err != nil {
			done <- &WSEvent{Type: "error", Error: err.Error()}
			return
		}
		done <- &WSEvent{Type: "result", Attempts: resp.Attempts, Result: resp}
	}()

	ticker := time.NewTicker(progressFlushInterval)
	defer ticker.Stop()

	var reported uint64
	for {
		select {
		case <-ticker.C:
			if n := attempts.Load(); n > reported {
				delta := n - reported
				reported = n
				if err := conn.WriteJSON(&WSEvent{Type: "progress", Attempts: delta}); err != nil {
					util.Debugf("WebSocket client gone: %v", err)
					return
				}
			}
		case ev := <-done:
			conn.WriteJSON(ev)
			return
		}
	}
}
