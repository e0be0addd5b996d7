package backendfake

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func readBody(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	data, _ := io.ReadAll(r.Body)
	_ = r.Body.Close()
	return string(data)
}

func newBody(body string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
