// Package serviceerr defines the error taxonomy shared by the client core.
// Every failure crossing a component boundary is classified by one of the
// codes below so callers can branch without string matching.
package serviceerr

import "errors"

type Code string

const (
	CodeUnknown           Code = "unknown"
	CodeValidation        Code = "validation"
	CodeAuth              Code = "auth"
	CodeNetwork           Code = "network"
	CodeMalformedResponse Code = "malformed_response"
	CodeStorageCorruption Code = "storage_corruption"
	CodeNotFound          Code = "not_found"
)

// Error couples a taxonomy code with an optional human-readable description.
type Error struct {
	Err         Code
	Description string
}

func (e *Error) Error() string {
	if e.Description == "" {
		return string(e.Err)
	}

	return string(e.Err) + ": " + e.Description
}

// Code extracts the taxonomy code from any error in err's chain.
// Unclassified errors report CodeUnknown.
func CodeOf(err error) Code {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Err
	}

	return CodeUnknown
}

func New(code Code, description string) *Error {
	return &Error{Err: code, Description: description}
}

var (
	ErrUnknown  = &Error{Err: CodeUnknown, Description: "unknown error"}
	ErrNotFound = &Error{Err: CodeNotFound, Description: "not found"}

	// Validation errors are raised locally, before any network traffic.
	ErrNoFileSelected     = &Error{Err: CodeValidation, Description: "no file selected"}
	ErrSubmissionInFlight = &Error{Err: CodeValidation, Description: "a submission is already in flight"}

	ErrSignInRequired     = &Error{Err: CodeAuth, Description: "sign-in required"}
	ErrAlreadySignedIn    = &Error{Err: CodeAuth, Description: "already signed in"}
	ErrInvalidCredentials = &Error{Err: CodeAuth, Description: "invalid credentials"}

	ErrMalformedResponse = &Error{Err: CodeMalformedResponse, Description: "response does not match the expected shape"}

	// ErrStorageCorrupt classifies an unparseable stored value. The stores
	// recover from it in place; it surfaces in logs, never to callers.
	ErrStorageCorrupt = &Error{Err: CodeStorageCorruption, Description: "stored state is not parseable"}
)
