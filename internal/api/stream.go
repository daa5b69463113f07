package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/agent-metro/internal/sim"
	"github.com/talgya/agent-metro/internal/world"
)

const (
	streamInterval = time.Second
	writeWait      = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Renderers connect cross-origin; CORS policy is enforced on the
	// HTTP surface, the stream is read-only.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// snapshot is one frame of the renderer stream.
type snapshot struct {
	Type      string               `json:"type"`
	Timestamp time.Time            `json:"timestamp"`
	Agents    []sim.Agent          `json:"agents"`
	Vehicles  []sim.Vehicle        `json:"vehicles"`
	Security  []sim.SecurityNPC    `json:"security"`
	Dialogue  []sim.DialogueBubble `json:"dialogue"`
	Activity  []sim.Activity       `json:"activity"`
	Locations []world.Location     `json:"locations,omitempty"`
}

// handleStream upgrades to a websocket and pushes world snapshots once per
// second until the client goes away. The first frame includes the static
// geography so renderers can draw the map immediately.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	slog.Info("stream client connected", "remote", r.RemoteAddr)

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	first := true
	for {
		frame := s.buildSnapshot(first)
		first = false

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			slog.Debug("stream client disconnected", "remote", r.RemoteAddr, "error", err)
			return
		}
		<-ticker.C
	}
}

func (s *Server) buildSnapshot(includeGeo bool) snapshot {
	store := s.Sim.Store()
	frame := snapshot{
		Type:      "snapshot",
		Timestamp: time.Now(),
		Agents:    store.Agents(),
		Vehicles:  store.Vehicles(),
		Security:  store.Security(),
		Dialogue:  store.ActiveDialogue(time.Now(), 50),
		Activity:  store.RecentActivity(20),
	}
	if includeGeo {
		frame.Locations = store.Locations()
	}
	return frame
}
