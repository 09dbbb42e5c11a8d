package routes

import (
	"layer-comparator/internal/export"
	"layer-comparator/internal/raster"
	"layer-comparator/internal/session"
	"net/http"
)

// ReadView renders the selected image as PNG. A stale difference is served
// as is; the X-Difference-Fresh header tells the client.
func ReadView(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selector, err := session.ParseSelector(r.PathValue("selector"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		var buf *raster.Buffer
		var fresh bool
		_ = c.Do(func(s *session.Session) error {
			buf = s.CurrentView(selector)
			fresh = s.DifferenceFresh()
			return nil
		})
		if buf.Empty() {
			http.NotFound(w, r)
			return
		}

		// Buffers are replaced wholesale, never mutated, so encoding outside
		// the lock is safe.
		data, err := export.EncodePNG(buf)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		if selector == session.SelectorDifference {
			if fresh {
				w.Header().Set("X-Difference-Fresh", "true")
			} else {
				w.Header().Set("X-Difference-Fresh", "false")
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

type ExportResponse struct {
	URL string `json:"url"`
}

func ExportView(c *Controller, e *export.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selector, err := session.ParseSelector(r.PathValue("selector"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		var buf *raster.Buffer
		var previousKey, nextKey string
		_ = c.Do(func(s *session.Session) error {
			buf = s.CurrentView(selector)
			previousKey = s.Selection(session.SelectorPrevious).Key()
			nextKey = s.Selection(session.SelectorNext).Key()
			return nil
		})
		if buf.Empty() {
			http.NotFound(w, r)
			return
		}

		url, err := e.Save(r.Context(), selector.String(), buf, previousKey, nextKey)
		if err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ExportResponse{URL: url})
	}
}
