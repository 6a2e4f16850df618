//nolint:lll
package api

import (
	"fmt"
	"net/http"
)

// The custom Error type satisfies the error interface.
// Error() returns a human-readable description of the error.
//
// Error codes in the 40001-49999 range are the user's fault,
// and they return HTTP Status 400, 403, 404 or 409, whatever is most appropriate.
//
// Error codes 50001-59999 are the server's fault
// and they return HTTP Status 500 or 503, or something else if appropriate.
//
// NEVER change any of the current error codes, only append new errors after the current last 4XXX or 5XXX.
// If you notice there's a gap (say, error code 40010, 40011 and 40013 exist, 40012 is missing) DON'T fill in the gap,
// that code was used in the past for some error (not anymore) and shouldn't be reused.
// There's no correlation between Code and HTTP Status.
var (
	ErrResourceNotFound = Error{Code: 40001, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("resource not found")}
	ErrMalformedBody    = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed JSON body")}
	ErrInvalidSignature = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid signature")}
	ErrMalformedParam   = Error{Code: 40006, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed URL parameter")}

	ErrAlreadyResponded        = Error{Code: 40010, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("participant has already responded")}
	ErrInvalidOption           = Error{Code: 40011, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid option index")}
	ErrInvalidViewer           = Error{Code: 40012, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid viewer principal")}
	ErrNotAdmin                = Error{Code: 40013, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("caller is not the survey admin")}
	ErrSurveyNotActive         = Error{Code: 40014, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("survey is not active")}
	ErrSurveyExpired           = Error{Code: 40015, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("survey deadline has passed")}
	ErrDeadlineNotLater        = Error{Code: 40016, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("new deadline must be later than the current one")}
	ErrDeadlinePassedForReopen = Error{Code: 40017, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("cannot reopen after the deadline")}
	ErrArityMismatch           = Error{Code: 40018, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("batch sequences differ in length")}
	ErrEmptyBatch              = Error{Code: 40019, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("empty batch")}
	ErrViewerNotAuthorized     = Error{Code: 40020, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("viewer is not authorized")}
	ErrNoPriorResponse         = Error{Code: 40021, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("no prior response to withdraw")}
	ErrTooLateToWithdraw       = Error{Code: 40022, HTTPstatus: http.StatusConflict, Err: fmt.Errorf("too late to withdraw")}
	ErrInvalidCount            = Error{Code: 40023, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("count must be positive")}
	ErrProofInvalid            = Error{Code: 40024, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("ciphertext proof invalid")}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling (server-side) JSON failed")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("internal server error")}
)
