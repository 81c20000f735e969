package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mkravets/formflow/internal/snapshot"
	"github.com/mkravets/formflow/internal/telemetry"
)

// handleEvents streams snapshot change notifications over Server-Sent
// Events. Clients receive an init event with the current ETag on connect,
// then an update event each time the snapshot is swapped; on update they
// re-fetch /v1/forms/snapshot.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		InternalError(w, r, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	telemetry.SSEClients.Inc()
	defer telemetry.SSEClients.Dec()

	notices, cancel := snapshot.Subscribe()
	defer cancel()

	snap := snapshot.Load()
	writeSSE(w, "init", snapshot.Notice{ETag: snap.ETag, Forms: len(snap.Forms)})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case n, ok := <-notices:
			if !ok {
				return
			}
			writeSSE(w, "update", n)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
