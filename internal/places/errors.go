package places

import (
	"fmt"

	"github.com/jonathan/geo-prospector/internal/types"
)

// StatusError is returned when the provider answers with a non-success status.
type StatusError struct {
	Kind    types.ErrorKind
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("places: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("places: %s", e.Status)
}

// TransportError is returned when the provider could not be reached or its
// response could not be read.
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("places %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// CheckStatus converts a provider status into an error. OK and ZERO_RESULTS
// are both success.
func CheckStatus(status, message string) error {
	switch status {
	case StatusOK, StatusZeroResults:
		return nil
	case StatusRequestDenied:
		return &StatusError{Kind: types.KindPermissionDenied, Status: status, Message: message}
	case StatusOverQueryLimit:
		return &StatusError{Kind: types.KindQuotaExceeded, Status: status, Message: message}
	default:
		return &StatusError{Kind: types.KindUnexpectedStatus, Status: status, Message: message}
	}
}

func kindForHTTP(code int) types.ErrorKind {
	switch code {
	case 401, 403:
		return types.KindPermissionDenied
	case 429:
		return types.KindQuotaExceeded
	default:
		return types.KindUnexpectedStatus
	}
}
