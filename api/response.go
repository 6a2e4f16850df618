package api

import (
	"encoding/json"
	"net/http"
)

// submitResponse submits a single encrypted vote
// POST /responses
func (a *API) submitResponse(w http.ResponseWriter, r *http.Request) {
	req := &SubmitResponseRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.SubmitResponse(caller, req.OptionIndex, req.Blob, req.Proof); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// submitBatchResponse submits one encrypted vote per option index
// POST /responses/batch
func (a *API) submitBatchResponse(w http.ResponseWriter, r *http.Request) {
	req := &SubmitBatchRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	blobs := make([][]byte, len(req.Blobs))
	for i, blob := range req.Blobs {
		blobs[i] = blob
	}
	proofs := make([][]byte, len(req.Proofs))
	for i, proof := range req.Proofs {
		proofs[i] = proof
	}
	if err := a.engine.SubmitBatchResponse(caller, req.OptionIndices, blobs, proofs); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// withdraw clears the caller's recorded response
// POST /responses/withdraw
func (a *API) withdraw(w http.ResponseWriter, r *http.Request) {
	req := &WithdrawRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.WithdrawAndResubmit(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}
