package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/knowledgekeeper/internal/common"
)

var (
	// ErrUnavailable wraps transport failures: no response reached us.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is matched by any 401 RequestError.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDecode wraps a 2xx response whose body could not be decoded.
	ErrDecode = errors.New("malformed response")
)

const genericDetail = "Request failed"

// RequestError is a non-2xx response.
type RequestError struct {
	Status int
	Detail string

	// synthesized is set when the body carried no usable detail.
	synthesized bool
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Detail, e.Status)
}

func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case common.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// DetailOr returns the server's detail, or fallback when the server did
// not provide one.
func (e *RequestError) DetailOr(fallback string) string {
	if e.synthesized || e.Detail == "" {
		return fallback
	}
	return e.Detail
}

// newRequestError pulls a human message out of an error body. FastAPI-style
// bodies carry either {"detail": "text"} or {"detail": [{"msg": "..."}]}.
// Anything else yields the generic detail.
func newRequestError(status int, body []byte) *RequestError {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil && s != "" {
			return &RequestError{Status: status, Detail: s}
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(payload.Detail, &list) == nil && len(list) > 0 && list[0].Msg != "" {
			return &RequestError{Status: status, Detail: list[0].Msg}
		}
	}
	return &RequestError{Status: status, Detail: genericDetail, synthesized: true}
}

// Message turns any API error into a single line for the user. Fallback is
// used for HTTP errors without server detail; network failures always read
// "Network error occurred".
func Message(err error, fallback string) string {
	var re *RequestError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &re):
		return re.DetailOr(fallback)
	case errors.Is(err, ErrUnavailable):
		return "Network error occurred"
	case errors.Is(err, common.ErrValidation):
		return err.Error()
	default:
		return fallback
	}
}
