package api

import (
	"encoding/json"
	"net/http"
)

// closeSurvey turns the survey flag off (admin only)
// POST /survey/close
func (a *API) closeSurvey(w http.ResponseWriter, r *http.Request) {
	req := &CloseRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.CloseSurvey(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// reopenSurvey turns the survey flag back on (admin only)
// POST /survey/reopen
func (a *API) reopenSurvey(w http.ResponseWriter, r *http.Request) {
	req := &ReopenRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.ReopenSurvey(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// extendDeadline moves the survey deadline forward (admin only)
// POST /survey/deadline
func (a *API) extendDeadline(w http.ResponseWriter, r *http.Request) {
	req := &ExtendDeadlineRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.ExtendDeadline(caller, req.Deadline); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}
