package apiresponse

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tasksApp/internal/logger"

	"go.uber.org/zap"
)

const TimestampLayout = "2006-01-02T15:04:05.000"

// ApiResponse is the envelope every endpoint answers with. Empty fields are left out.
type ApiResponse struct {
	Timestamp        string   `json:"timestamp,omitempty"`
	Status           string   `json:"status,omitempty"`
	StatusCode       int      `json:"statusCode,omitempty"`
	Message          string   `json:"message,omitempty"`
	Reason           string   `json:"reason,omitempty"`
	ApiPath          string   `json:"apiPath,omitempty"`
	ValidationErrors []string `json:"validationErrors,omitempty"`
	Data             any      `json:"data,omitempty"`
}

// StatusName turns a status code into its upper snake-case name, e.g. 404 -> NOT_FOUND.
func StatusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "-", "_")
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func New(code int, message string) ApiResponse {
	return ApiResponse{
		Timestamp:  time.Now().Format(TimestampLayout),
		Status:     StatusName(code),
		StatusCode: code,
		Message:    message,
	}
}

func (a ApiResponse) WithData(data any) ApiResponse {
	a.Data = data
	return a
}

func (a ApiResponse) WithReason(reason string) ApiResponse {
	a.Reason = reason
	return a
}

func (a ApiResponse) WithPath(path string) ApiResponse {
	a.ApiPath = path
	return a
}

func (a ApiResponse) WithValidationErrors(msgs []string) ApiResponse {
	a.ValidationErrors = msgs
	return a
}

// Write sends a with a.StatusCode.
func Write(w http.ResponseWriter, a ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.StatusCode)
	if err := json.NewEncoder(w).Encode(a); err != nil {
		logger.Error("HTTP: failed to encode response", err, zap.Int("status", a.StatusCode))
	}
}
