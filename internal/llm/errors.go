package llm

import "fmt"

// TransportError indicates a network-level failure reaching a provider:
// connection refused, timeout, DNS failure. The request never produced an
// HTTP response. Always retryable by the caller.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError indicates the provider responded with a non-2xx HTTP status.
// The server is reachable but rejected the request.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string
	Type       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error [%d] from %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("provider error [%d] from %s", e.StatusCode, e.URL)
}

// ProtocolError indicates the provider responded with malformed or
// unexpected content, such as a discovery call returning unparsable JSON.
// Callers should treat the provider as degraded rather than crash.
type ProtocolError struct {
	URL string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error from %s: %v", e.URL, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
