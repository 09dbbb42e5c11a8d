package routes

import (
	"encoding/json"
	"fmt"
	"io"
	diffimage "layer-comparator/internal/diff/image"
	"layer-comparator/internal/session"
	"log/slog"
	"net/http"
)

type DifferenceResponse struct {
	Fresh      bool                  `json:"fresh"`
	DiffAmount float64               `json:"diffAmount"`
	Regions    []diffimage.Rectangle `json:"regions"`
}

type FootprintResponse struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type SessionResponse struct {
	State      string                 `json:"state"`
	Policy     string                 `json:"policy"`
	Previous   *session.SelectionPath `json:"previous,omitempty"`
	Next       *session.SelectionPath `json:"next,omitempty"`
	Difference *DifferenceResponse    `json:"difference,omitempty"`
	Footprint  *FootprintResponse     `json:"footprint,omitempty"`
}

func newSessionResponse(s *session.Session) SessionResponse {
	response := SessionResponse{
		State:  s.State().String(),
		Policy: s.Policy().String(),
	}

	if p := s.Selection(session.SelectorPrevious); !p.IsZero() {
		response.Previous = &p
	}
	if p := s.Selection(session.SelectorNext); !p.IsZero() {
		response.Next = &p
	}
	if result := s.DiffResult(); result != nil {
		response.Difference = &DifferenceResponse{
			Fresh:      s.DifferenceFresh(),
			DiffAmount: result.DiffAmount,
			Regions:    result.Regions,
		}
	}
	if w, h, ok := s.WindowFootprint(); ok {
		response.Footprint = &FootprintResponse{Width: w, Height: h}
	}

	return response
}

func ReadSession(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var response SessionResponse
		_ = c.Do(func(s *session.Session) error {
			response = newSessionResponse(s)
			return nil
		})
		writeJSON(w, http.StatusOK, response)
	}
}

// UpdateSession selects a variant into the previous or next slot.
func UpdateSession(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := session.ParseSelector(r.PathValue("slot"))
		if err != nil || slot == session.SelectorDifference {
			http.NotFound(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			slog.Error(fmt.Sprintf("failed to read request body: %s", err))
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		var request session.SelectionPath
		if err := json.Unmarshal(body, &request); err != nil {
			http.Error(w, "Invalid JSON format", http.StatusBadRequest)
			return
		}
		if err := request.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var response SessionResponse
		if err := c.Do(func(s *session.Session) error {
			if _, err := s.SelectByHierarchy(r.Context(), slot, request); err != nil {
				return err
			}
			response = newSessionResponse(s)
			return nil
		}); err != nil {
			writeSessionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, response)
	}
}
