package practicum

import (
	"errors"
	"fmt"
)

// TransportError means the request never produced a response (DNS, refused
// connection, timeout, ...).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Ошибка при запросе к API: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError means the API answered, but not with a usable 200 JSON body.
type UpstreamError struct {
	StatusCode int
	// Body is a bounded excerpt of the response, for logs.
	Body string
	// Err is set when a 200 body could not be decoded.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Некорректный ответ API: %v", e.Err)
	}
	return fmt.Sprintf("Статус ошибки %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AsTransportError attempts to unwrap err into a TransportError.
func AsTransportError(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// AsUpstreamError attempts to unwrap err into an UpstreamError.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
