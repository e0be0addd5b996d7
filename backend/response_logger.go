package backend

import (
	"encoding/json"
	"mime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logResponse writes a debug entry for every backend response. Logging must never
// affect the caller, so any panic is swallowed.
func logResponse(method, endpoint string, resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Str("endpoint", endpoint).Msg("backend response logging failed")
		}
	}()

	event := log.Debug()
	if !event.Enabled() {
		return
	}

	headers := zerolog.Dict()
	for key, values := range resp.Header {
		headers.Str(key, strings.Join(values, ", "))
	}

	event = event.
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Str("statusText", resp.Status).
		Dict("headers", headers)

	if isJSON(resp.Header.Get("Content-Type")) && json.Valid(resp.Body) {
		event = event.RawJSON("body", resp.Body)
	} else {
		event = event.Str("body", string(resp.Body))
	}
	event.Msg("backend response")
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
