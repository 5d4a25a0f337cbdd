package stockdesk

import "fmt"

// NetworkError reports a request that never produced a usable response:
// transport failure, cancelled context or an undecodable body.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError reports a non-2xx response. Detail carries the backend's error
// detail when it sent one.
type HTTPError struct {
	Op         string
	URL        string
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.StatusCode, e.Detail)
}
