package routes

import (
	"layer-comparator/internal/session"
	"net/http"
)

// Act applies one of the view actions. Load actions are served by
// UpdateSession, which carries the selection in its body.
func Act(c *Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action, err := session.ParseAction(r.PathValue("action"))
		if err != nil || action == session.ActionLoadPrevious || action == session.ActionLoadNext {
			http.NotFound(w, r)
			return
		}

		var response SessionResponse
		if err := c.Do(func(s *session.Session) error {
			if err := s.Dispatch(r.Context(), session.Command{Action: action}); err != nil {
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
