package llm

import (
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/browseassist/internal/settings"
)

// ErrConfigMissing is returned before any request when the base URL or API
// key is empty.
var ErrConfigMissing = settings.ErrIncomplete

// ErrMalformedResponse is returned when a 2xx reply lacks a usable choice.
var ErrMalformedResponse = errors.New("malformed completion response")

// HTTPError is a non-2xx reply from the completion endpoint. Message holds
// the API's own error text when the body carried one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed: %d", e.Status)
	}
	return fmt.Sprintf("API request failed: %d: %s", e.Status, e.Message)
}

// classify maps go-openai transport errors onto this package's taxonomy.
// Errors it does not recognise (network, context) are wrapped unchanged.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &HTTPError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &HTTPError{Status: reqErr.HTTPStatusCode}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return fmt.Errorf("chat completion: %w", err)
}
