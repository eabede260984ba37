package extract

import (
	"errors"
	"fmt"
)

var (
	ErrNoDocuments     = errors.New("no documents to upload")
	ErrInvalidResponse = errors.New("invalid response from extraction service")
	ErrUnhealthy       = errors.New("extraction service unhealthy")
)

// StatusError is returned for any non-2xx response. Error() omits Body.
type StatusError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: non-2xx status: %d", e.Op, e.StatusCode)
}
