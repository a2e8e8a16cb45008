package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// StreamJSON serves ch as a text/event-stream. Every value becomes one event
// named event with a JSON payload. Comment lines are sent every keepAlive to
// hold idle connections open. It returns when ch is closed or the client
// goes away.
func StreamJSON[T any](w http.ResponseWriter, r *http.Request, event string, ch <-chan T, keepAlive time.Duration) {
	rc := http.NewResponseController(w)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		case v, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(v)
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
