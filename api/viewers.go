package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vocdoni/confidential-survey/types"
)

// viewerList returns the enumerable authorized-viewer list
// GET /viewers
func (a *API) viewerList(w http.ResponseWriter, r *http.Request) {
	viewers, err := a.engine.AuthorizedViewers()
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, &ViewersResponse{Viewers: viewers})
}

// viewerDetails returns the registry entry of one principal
// GET /viewers/{address}
func (a *API) viewerDetails(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(chi.URLParam(r, AddressURLParam))
	if !ok {
		ErrMalformedParam.With("invalid address").Write(w)
		return
	}
	details, err := a.engine.ViewerDetails(addr)
	if err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteJSON(w, details)
}

// authorizeViewer authorizes a principal as viewer (admin only)
// POST /viewers
func (a *API) authorizeViewer(w http.ResponseWriter, r *http.Request) {
	req := &AuthorizeViewerRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	role := req.Role
	if role == types.RoleNone {
		role = types.RoleBasic
	}
	if err := a.engine.AuthorizeViewerWithRole(caller, req.Principal, role, req.Expiry); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// revokeViewer removes a principal from the authorized set (admin only)
// POST /viewers/revoke
func (a *API) revokeViewer(w http.ResponseWriter, r *http.Request) {
	req := &RevokeViewerRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.RevokeViewer(caller, req.Principal); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}

// requestAccess self-registers the caller as a basic viewer
// POST /viewers/access
func (a *API) requestAccess(w http.ResponseWriter, r *http.Request) {
	req := &AccessRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		ErrMalformedBody.Withf("could not decode request body: %v", err).Write(w)
		return
	}
	caller, err := callerAddress(req.SignaturePayload(), req.Signature)
	if err != nil {
		ErrInvalidSignature.WithErr(err).Write(w)
		return
	}
	if err := a.engine.RequestDecryptionAccess(caller); err != nil {
		errorFromEngine(err).Write(w)
		return
	}
	httpWriteOK(w)
}
