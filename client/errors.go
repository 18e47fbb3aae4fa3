package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrNotFound matches (errors.Is) every *APIError with a 404 status.
var ErrNotFound = fmt.Errorf("registro não encontrado")

// APIError is returned for any unexpected response status. Body is preserved as received.
type APIError struct {
	StatusCode int
	Body       []byte
	Message    string
	Fields     map[string]string
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg, ok := payload["error"].(string); ok && len(payload) == 1 {
			apiErr.Message = msg
		} else {
			apiErr.Fields = make(map[string]string, len(payload))
			for k, v := range payload {
				if s, ok := v.(string); ok {
					apiErr.Fields[k] = s
				}
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	flds := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		flds = append(flds, k+": "+v)
	}
	slices.Sort(flds)
	return fmt.Sprintf("api: %d %s", e.StatusCode, strings.Join(flds, "; "))
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
