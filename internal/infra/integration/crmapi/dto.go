package crmapi

import "fmt"

// TransportError is a non-2xx response from the CRM API.
type TransportError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *TransportError) Error() string {
	return e.Message
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newTransportError(status int, body errorBody) *TransportError {
	msg := body.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return &TransportError{StatusCode: status, Code: body.Error, Message: msg}
}
