package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/handcricket/pkg/engine"
)

// SSEEvent represents a Server-Sent Event.
type SSEEvent struct {
	Event string      `json:"event"` // Event type: "progress", "result", "error", "done"
	Data  interface{} `json:"data"`  // Event data
}

// SimulateSSE streams simulation progress as Server-Sent Events.
// GET /api/simulate/stream?matches=...&team1=...&team2=...&seed=...&workers=...
func (h *Handlers) SimulateSSE(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := SimulateRequest{
		Matches: parseIntParam(query.Get("matches"), 0),
		Team1:   query.Get("team1"),
		Team2:   query.Get("team2"),
		Seed:    int64(parseIntParam(query.Get("seed"), 0)),
		Workers: parseIntParam(query.Get("workers"), 0),
	}
	opts, err := h.simulateOptions(req)
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		if !h.pool.TryAcquireSimulation() {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSimulation()
	}

	// Progress arrives on the aggregating goroutine, which is also the one
	// that returns from Simulate, so writes never overlap.
	callback := func(p engine.SimulateProgress) {
		writeSSEEvent(w, "progress", p)
		flusher.Flush()
	}

	result, err := engine.Simulate(r.Context(), h.catalog, opts, callback)
	if err != nil {
		writeSSEError(w, "simulation failed: "+err.Error())
		return
	}

	writeSSEEvent(w, "result", result)
	flusher.Flush()

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
