package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vocdoni/confidential-survey/encryption"
	"github.com/vocdoni/confidential-survey/survey"
	"go.vocdoni.io/dvote/log"
)

// Error is used by handler functions to wrap errors, assigning a unique error code
// and also specifying which HTTP Status should be used.
type Error struct {
	Err        error
	Code       int
	HTTPstatus int
}

// MarshalJSON returns a JSON containing Err.Error() and Code. Field HTTPstatus is ignored.
//
// Example output: {"error":"survey is not active","code":40014}
func (e Error) MarshalJSON() ([]byte, error) {
	// This anon struct is needed to actually include the error string,
	// since it wouldn't be marshaled otherwise. (json.Marshal doesn't call Err.Error())
	return json.Marshal(
		struct {
			Err  string `json:"error"`
			Code int    `json:"code"`
		}{
			Err:  e.Err.Error(),
			Code: e.Code,
		})
}

// Error returns the message contained inside the Error
func (e Error) Error() string {
	return e.Err.Error()
}

// Write serializes a JSON msg using Error.Err and Error.Code
// and writes it with the associated HTTP status.
func (e Error) Write(w http.ResponseWriter) {
	msg, err := json.Marshal(e)
	if err != nil {
		log.Warn(err)
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.Error(w, string(msg), e.HTTPstatus)
}

// Withf returns a copy of Error with the Sprintf formatted string appended at the end of e.Err
func (e Error) Withf(format string, args ...any) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, fmt.Sprintf(format, args...)),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// With returns a copy of Error with the string appended at the end of e.Err
func (e Error) With(s string) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, s),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// WithErr returns a copy of Error with err.Error() appended at the end of e.Err
func (e Error) WithErr(err error) Error {
	return Error{
		Err:        fmt.Errorf("%w: %v", e.Err, err.Error()),
		Code:       e.Code,
		HTTPstatus: e.HTTPstatus,
	}
}

// errorFromEngine translates an engine precondition failure into its API
// error. Unknown errors become a generic internal server error.
func errorFromEngine(err error) Error {
	for sentinel, apiErr := range engineErrors {
		if errors.Is(err, sentinel) {
			return apiErr
		}
	}
	return ErrGenericInternalServerError.WithErr(err)
}

var engineErrors = map[error]Error{
	survey.ErrAlreadyResponded:        ErrAlreadyResponded,
	survey.ErrInvalidOption:           ErrInvalidOption,
	survey.ErrInvalidViewer:           ErrInvalidViewer,
	survey.ErrNotAdmin:                ErrNotAdmin,
	survey.ErrSurveyNotActive:         ErrSurveyNotActive,
	survey.ErrSurveyExpired:           ErrSurveyExpired,
	survey.ErrDeadlineNotLater:        ErrDeadlineNotLater,
	survey.ErrDeadlinePassedForReopen: ErrDeadlinePassedForReopen,
	survey.ErrArityMismatch:           ErrArityMismatch,
	survey.ErrEmptyBatch:              ErrEmptyBatch,
	survey.ErrViewerNotAuthorized:     ErrViewerNotAuthorized,
	survey.ErrNoPriorResponse:         ErrNoPriorResponse,
	survey.ErrTooLateToWithdraw:       ErrTooLateToWithdraw,
	survey.ErrInvalidCount:            ErrInvalidCount,
	encryption.ErrProofInvalid:        ErrProofInvalid,
}
