package remote

import "fmt"

// Status detail types.
const (
	DetailError = "ERROR"
	DetailWarn  = "WARN"
)

// StatusDetail is one diagnostic attached to a status.
type StatusDetail struct {
	Type    string
	Code    string
	Message string
}

// Status is carried by every remote response.
type Status struct {
	IsSuccess bool
	Details   []StatusDetail
}

// Success is a successful status without details.
func Success() Status {
	return Status{IsSuccess: true}
}

// Failure builds a failed status with a single error detail.
func Failure(code, message string) Status {
	return Status{Details: []StatusDetail{{Type: DetailError, Code: code, Message: message}}}
}

// StatusError is a remote failure status turned into an error.
type StatusError struct {
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote API error: %s - %s", e.Code, e.Message)
}

// Err returns nil for a successful status, otherwise a *StatusError built
// from the first ERROR detail (or the first detail when none is an error).
func (s Status) Err() error {
	if s.IsSuccess {
		return nil
	}
	for _, d := range s.Details {
		if d.Type == DetailError {
			return &StatusError{Code: d.Code, Message: d.Message}
		}
	}
	if len(s.Details) > 0 {
		return &StatusError{Code: s.Details[0].Code, Message: s.Details[0].Message}
	}
	return &StatusError{Code: "UNKNOWN_ERROR", Message: "remote call failed without details"}
}
