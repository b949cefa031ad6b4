package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/drobledo/pulso-cli/internal/domain"
)

// errorBody covers the message field variants backend errors ship.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errores []any  `json:"errores"`
	Errors  []any  `json:"errors"`
}

func networkErr(err error) *domain.RequestError {
	return &domain.RequestError{
		Class:   domain.ClassNetwork,
		Message: fmt.Sprintf("connection failed: %v", err),
	}
}

// statusErr normalizes a non-2xx response. Only a 401 demands re-auth;
// a 403 leaves the session valid.
func statusErr(status int, raw []byte) *domain.RequestError {
	message := serverMessage(raw)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	return &domain.RequestError{
		Class:          domain.ClassForStatus(status),
		Status:         status,
		Message:        message,
		RequiresReauth: status == http.StatusUnauthorized,
	}
}

func serverMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
