package handlers

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const contentTypeJSON = "application/json"

// maxBodyBytes caps request bodies; task payloads are tiny.
const maxBodyBytes = 1 << 20

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == target
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if !checkContentType(r, contentTypeJSON) {
		return &RequestError{
			Kind:   KindUnsupportedMediaType,
			Reason: fmt.Sprintf("Content-Type '%s' is not supported, use %s", r.Header.Get("Content-Type"), contentTypeJSON),
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &RequestError{Kind: KindMalformedBody, Reason: "JSON parse error", Err: err}
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, typeMismatch(raw, "int64", err)
	}
	return id, nil
}

var (
	trueValues  = map[string]bool{"true": true, "on": true, "yes": true, "1": true}
	falseValues = map[string]bool{"false": true, "off": true, "no": true, "0": true}
)

// parseFlag accepts true/false, on/off, yes/no and 1/0 in any case.
func parseFlag(raw string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case trueValues[v]:
		return true, nil
	case falseValues[v]:
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value '%s'", raw)
	}
}

// statusQuery returns nil when the status parameter is absent or empty.
func statusQuery(r *http.Request) (*bool, error) {
	raw := r.URL.Query().Get("status")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	open, err := parseFlag(raw)
	if err != nil {
		return nil, typeMismatch(raw, "bool", err)
	}
	return &open, nil
}
