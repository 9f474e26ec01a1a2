package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork marks failures where no response was received at all. These
// are reported as a connection problem and never clear the session.
var ErrNetwork = errors.New("connection error")

// APIError is an error response from the remote API.
type APIError struct {
	Status  int
	Title   string
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%d)", e.Title, e.Status)
}

// UserMessage is the text shown to the user: the server's own message
// where available, otherwise a status-derived fallback.
func (e *APIError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch {
	case e.Status == http.StatusUnauthorized:
		return "Please sign in to continue."
	case e.Status == http.StatusForbidden:
		return "You don't have permission to perform this action."
	case e.Status == http.StatusNotFound:
		return "The requested resource could not be found."
	case e.Status >= 500:
		return "Our servers are experiencing issues. Please try again later."
	default:
		return "Something went wrong"
	}
}

// errorBody covers the shapes the API uses for error payloads.
type errorBody struct {
	Title   string `json:"title"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Code    string `json:"code"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func newAPIError(status int, body errorBody) *APIError {
	title := body.Title
	if title == "" {
		title = body.Error
	}
	if title == "" {
		title = titleForStatus(status)
	}

	message := body.Message
	if message == "" {
		message = body.Detail
	}
	if message == "" && len(body.Errors) > 0 {
		message = body.Errors[0].Message
	}

	return &APIError{
		Status:  status,
		Title:   title,
		Message: message,
		Code:    body.Code,
	}
}

func titleForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid Request"
	case http.StatusUnauthorized:
		return "Authentication Required"
	case http.StatusForbidden:
		return "Access Denied"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusUnprocessableEntity:
		return "Validation Error"
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	case http.StatusInternalServerError:
		return "Server Error"
	case http.StatusBadGateway:
		return "Bad Gateway"
	case http.StatusServiceUnavailable:
		return "Service Unavailable"
	default:
		return "Error"
	}
}

// IsNetwork reports whether err is a no-response network failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

// IsConflict reports whether err is a 409 from the API.
func IsConflict(err error) bool {
	return isStatus(err, http.StatusConflict)
}

func isStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// UserMessage renders any client error for display: API errors carry the
// server's wording, network failures get the connection message.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if IsNetwork(err) {
		return "Unable to connect to the server. Please check your internet connection."
	}
	return "Something went wrong"
}
