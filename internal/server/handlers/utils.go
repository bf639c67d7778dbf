package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/wordgames/internal/logfields"
)

// writeJSON encodes v into a buffer first so a failed encode never leaves a
// partial response. ?pretty=1 (or true) indents the output. Only encode
// errors are returned; once the header is sent a failed body write is logged.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if wantsPretty(r) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed writing JSON response body", logfields.Error(err))
	}
	return nil
}

func wantsPretty(r *http.Request) bool {
	if r == nil {
		return false
	}
	p := r.URL.Query().Get("pretty")
	return p == "1" || p == "true"
}

// writeDocument writes an HTML body; HEAD requests receive headers only.
func writeDocument(w http.ResponseWriter, r *http.Request, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		slog.Warn("failed writing page body", logfields.Error(err), logfields.Path(r.URL.Path))
	}
}
