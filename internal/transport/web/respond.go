package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avstrong/holidaze/internal/booking"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

// writeError maps a manager error onto a status code. Remote errors keep the
// remote status and show its first message.
func (s *Server) writeError(w http.ResponseWriter, err error, action string) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return
	}

	switch {
	case errors.Is(err, booking.ErrNotLoggedIn):
		s.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Please log in to continue."})

		return
	case errors.Is(err, booking.ErrForbidden):
		s.writeJSON(w, http.StatusForbidden, errorBody{Error: "You are not allowed to do that."})

		return
	case errors.Is(err, booking.ErrInvalidID):
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid id."})

		return
	case errors.Is(err, booking.ErrUnavailable):
		s.l.LogErrorf("Could not %s: %v", action, err.Error())
		s.writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "The service is unavailable. Please try again later."})

		return
	}

	if remoteErr := booking.IsRemoteError(err); remoteErr != nil {
		status := remoteErr.StatusCode
		if status < http.StatusBadRequest || status > 599 { //nolint:gomnd
			status = http.StatusBadGateway
		}

		s.writeJSON(w, status, errorBody{Error: remoteErr.Message()})

		return
	}

	s.l.LogErrorf("Could not %s: %v", action, err.Error())
	s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})

		return false
	}

	return true
}
