package serviceerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medicoin/imaging-client/internal/serviceerr"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name        string
		err         *serviceerr.Error
		expectedMsg string
	}{
		{
			name:        "Error with description",
			err:         &serviceerr.Error{Err: serviceerr.CodeNotFound, Description: "token not found"},
			expectedMsg: "not_found: token not found",
		},
		{
			name:        "Error without description",
			err:         &serviceerr.Error{Err: serviceerr.CodeNetwork},
			expectedMsg: "network",
		},
		{
			name:        "Predefined error - ErrNoFileSelected",
			err:         serviceerr.ErrNoFileSelected,
			expectedMsg: "validation: no file selected",
		},
		{
			name:        "Predefined error - ErrMalformedResponse",
			err:         serviceerr.ErrMalformedResponse,
			expectedMsg: "malformed_response: response does not match the expected shape",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected serviceerr.Code
	}{
		{name: "classified error", err: serviceerr.ErrNoFileSelected, expected: serviceerr.CodeValidation},
		{name: "wrapped classified error", err: fmt.Errorf("submitting: %w", serviceerr.ErrSubmissionInFlight), expected: serviceerr.CodeValidation},
		{name: "joined classified error", err: errors.Join(errors.New("status 502"), serviceerr.New(serviceerr.CodeNetwork, "502 Bad Gateway")), expected: serviceerr.CodeNetwork},
		{name: "unclassified error", err: errors.New("boom"), expected: serviceerr.CodeUnknown},
		{name: "auth error", err: serviceerr.ErrSignInRequired, expected: serviceerr.CodeAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, serviceerr.CodeOf(tt.err))
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name        string
		err         *serviceerr.Error
		expectedErr serviceerr.Code
	}{
		{name: "ErrUnknown", err: serviceerr.ErrUnknown, expectedErr: serviceerr.CodeUnknown},
		{name: "ErrNotFound", err: serviceerr.ErrNotFound, expectedErr: serviceerr.CodeNotFound},
		{name: "ErrNoFileSelected", err: serviceerr.ErrNoFileSelected, expectedErr: serviceerr.CodeValidation},
		{name: "ErrSubmissionInFlight", err: serviceerr.ErrSubmissionInFlight, expectedErr: serviceerr.CodeValidation},
		{name: "ErrSignInRequired", err: serviceerr.ErrSignInRequired, expectedErr: serviceerr.CodeAuth},
		{name: "ErrAlreadySignedIn", err: serviceerr.ErrAlreadySignedIn, expectedErr: serviceerr.CodeAuth},
		{name: "ErrInvalidCredentials", err: serviceerr.ErrInvalidCredentials, expectedErr: serviceerr.CodeAuth},
		{name: "ErrMalformedResponse", err: serviceerr.ErrMalformedResponse, expectedErr: serviceerr.CodeMalformedResponse},
		{name: "ErrStorageCorrupt", err: serviceerr.ErrStorageCorrupt, expectedErr: serviceerr.CodeStorageCorruption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Equal(t, tt.expectedErr, tt.err.Err)
			assert.NotEmpty(t, tt.err.Description)
		})
	}
}
