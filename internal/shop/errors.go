package shop

import "fmt"

// ValidationError reports user input that failed format validation. The flow
// recovers by re-prompting; the session is left unchanged.
type ValidationError struct {
	Field string
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Input)
}

// Code identifies the error kind in log output.
func (e *ValidationError) Code() string { return "validation_error" }

// MalformedActionError reports an admin decision payload that does not match
// the expected "<verb>:<userId>" shape. The event is acknowledged and dropped
// without side effects.
type MalformedActionError struct {
	Payload string
}

func (e *MalformedActionError) Error() string {
	return fmt.Sprintf("malformed action payload: %q", e.Payload)
}

// Code identifies the error kind in log output.
func (e *MalformedActionError) Code() string { return "malformed_action" }

// MissingSessionError reports a decision referencing a user with no active
// session. Non-fatal: notifications are still delivered, there is just no
// state left to clear.
type MissingSessionError struct {
	UserID int64
}

func (e *MissingSessionError) Error() string {
	return fmt.Sprintf("no active session for user %d", e.UserID)
}

// Code identifies the error kind in log output.
func (e *MissingSessionError) Code() string { return "missing_session" }
