package models

import (
	"errors"
	"net/http"
)

// Service error taxonomy. Handlers resolve these to HTTP status codes
// through HTTPError; anything unrecognized becomes a generic 500.
var (
	ErrEmptyMessage         = errors.New("message must not be empty")
	ErrMessageTooLong       = errors.New("message exceeds maximum length of 500 characters")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUpstreamUnavailable  = errors.New("inference server unavailable")
	ErrUpstreamTimeout      = errors.New("inference request timed out")
	ErrUpstreamProtocol     = errors.New("inference server returned a malformed response")
)

// HTTPError resolves err to a status code and a client-safe message.
// Internal detail wrapped around a known sentinel is never exposed.
func HTTPError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest, ErrEmptyMessage.Error()
	case errors.Is(err, ErrMessageTooLong):
		return http.StatusBadRequest, ErrMessageTooLong.Error()
	case errors.Is(err, ErrConversationNotFound):
		return http.StatusNotFound, ErrConversationNotFound.Error()
	case errors.Is(err, ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, ErrUpstreamTimeout.Error()
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway, ErrUpstreamUnavailable.Error()
	case errors.Is(err, ErrUpstreamProtocol):
		return http.StatusBadGateway, ErrUpstreamProtocol.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
