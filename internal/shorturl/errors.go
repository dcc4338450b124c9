package shorturl

import "fmt"

// TransportError reports that a call never produced a usable response:
// the connection failed, the body could not be read, or the JSON was malformed.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
