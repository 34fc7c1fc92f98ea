package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"sitetrack/internal/domain"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders a domain error with its mapped status. Internal
// errors are masked; the handler logs the real cause.
func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	writeJSON(w, status, Fail(msg))
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return domain.Validationf("failed to read request body")
	}
	if len(body) == 0 {
		return domain.Validationf("request body is required")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.Validationf("invalid JSON body: %v", err)
	}
	return nil
}
