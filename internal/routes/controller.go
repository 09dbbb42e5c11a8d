package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"layer-comparator/internal/session"
	"log/slog"
	"net/http"
	"sync"
)

// Controller serializes every HTTP request that touches the session, which
// is not safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	session *session.Session
}

func NewController(s *session.Session) *Controller {
	return &Controller{session: s}
}

func (c *Controller) Do(f func(s *session.Session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f(c.session)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error(fmt.Sprintf("failed to marshal json: %s", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// writeSessionError maps session failures onto status codes. None of them
// are fatal; the session keeps its prior state.
func writeSessionError(w http.ResponseWriter, err error) {
	var loadErr *session.ImageLoadError
	var mismatchErr *session.DimensionMismatchError

	switch {
	case errors.As(err, &loadErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &mismatchErr), errors.Is(err, session.ErrNotReady):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error(fmt.Sprintf("failed to handle session request: %s", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
