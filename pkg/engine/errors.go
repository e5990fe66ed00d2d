package engine

import (
	"errors"
	"fmt"
)

// Error codes surfaced to API clients. INVALID_POSITION and
// REMOTE_UNAUTHORIZED never authorize a fallback search; the others do.
const (
	CodeInvalidPosition    = "INVALID_POSITION"
	CodeRemoteTimeout      = "REMOTE_TIMEOUT"
	CodeRemoteUnauthorized = "REMOTE_UNAUTHORIZED"
	CodeRemoteBadResponse  = "REMOTE_BAD_RESPONSE"
)

// EngineError classifies a failed move computation. Transient errors permit
// one local fallback search; non-transient ones are surfaced directly.
type EngineError struct {
	Code      string
	Transient bool
	Message   string
	Err       error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func NewInvalidPositionError(msg string, err error) *EngineError {
	return &EngineError{Code: CodeInvalidPosition, Transient: false, Message: msg, Err: err}
}

func newTimeoutError(msg string, err error) *EngineError {
	return &EngineError{Code: CodeRemoteTimeout, Transient: true, Message: msg, Err: err}
}

func newUnauthorizedError(msg string) *EngineError {
	return &EngineError{Code: CodeRemoteUnauthorized, Transient: false, Message: msg}
}

func newBadResponseError(msg string, err error) *EngineError {
	return &EngineError{Code: CodeRemoteBadResponse, Transient: true, Message: msg, Err: err}
}

// Classify extracts the error code and transient flag from any error
// produced by a Provider. Unclassified errors count as transient bad
// responses so a single fallback can still rescue the move.
func Classify(err error) (code string, transient bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code, ee.Transient
	}
	return CodeRemoteBadResponse, true
}
