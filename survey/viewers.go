package survey

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/log"
)

// AuthorizeViewer authorizes a principal as a Basic viewer with no expiry.
func (e *Engine) AuthorizeViewer(caller, principal common.Address) error {
	return e.AuthorizeViewerWithRole(caller, principal, types.RoleBasic, time.Time{})
}

// AuthorizeViewerWithRole authorizes a principal with an explicit role and
// optional expiry. The role is always (re)set; a zero expiry is skipped and
// does not clear a previously set one. The principal immediately receives
// decryption grants on every non-empty tally.
func (e *Engine) AuthorizeViewerWithRole(caller, principal common.Address, role types.ViewerRole, expiry time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(sv, caller); err != nil {
		return err
	}
	if principal == (common.Address{}) || !role.Valid() {
		return ErrInvalidViewer
	}
	if err := e.authorize(sv, principal, role, expiry); err != nil {
		return err
	}
	log.Infow("viewer authorized", "principal", principal.Hex(), "role", role.String())
	e.emit(&types.Event{Name: types.EventViewerAuthorized, Principal: principal})
	return nil
}

// RequestDecryptionAccess lets any caller self-register as a Basic viewer and
// immediately receive grants on all non-empty tallies. This open self-service
// path converges on the same authorized set as admin-granted authorization. A
// caller already authorized with a higher role keeps it.
func (e *Engine) RequestDecryptionAccess(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if caller == (common.Address{}) {
		return ErrInvalidViewer
	}
	role := types.RoleBasic
	entry, err := e.stg.Viewer(caller)
	if err != nil {
		return fmt.Errorf("read viewer entry: %w", err)
	}
	if entry.IsAuthorized && entry.Role > role {
		role = entry.Role
	}
	if err := e.authorize(sv, caller, role, time.Time{}); err != nil {
		return err
	}
	log.Infow("viewer self-registered", "principal", caller.Hex())
	e.emit(&types.Event{Name: types.EventViewerAuthorized, Principal: caller})
	return nil
}

// authorize is the shared authorization path. The entry and the list commit
// in one write transaction. Callers hold e.mu.
func (e *Engine) authorize(sv *types.Survey, principal common.Address, role types.ViewerRole, expiry time.Time) error {
	entry, err := e.stg.Viewer(principal)
	if err != nil {
		return fmt.Errorf("read viewer entry: %w", err)
	}
	list, err := e.stg.ViewerList()
	if err != nil {
		return fmt.Errorf("read viewer list: %w", err)
	}
	if !entry.IsAuthorized {
		list = append(list, principal)
	}
	entry.IsAuthorized = true
	entry.Role = role
	if !expiry.IsZero() {
		entry.AccessExpiry = expiry
	}
	if err := e.stg.ApplyViewerChange(principal, entry, list); err != nil {
		return fmt.Errorf("store viewer registry: %w", err)
	}

	for i := range sv.Metadata.Options {
		tally, err := e.stg.Tally(i)
		if err != nil {
			return fmt.Errorf("read tally %d: %w", i, err)
		}
		if e.enc.IsZero(tally) {
			continue
		}
		if err := e.enc.GrantDecryption(tally, principal); err != nil {
			return fmt.Errorf("grant tally %d: %w", i, err)
		}
	}
	return nil
}

// RevokeViewer removes a principal from the authorized set and zeroes its
// role and expiry. The list removal swaps the last element into the freed
// slot, so enumeration order of the remaining viewers may change. Grants
// already issued on ciphertexts are not retracted; revocation only stops
// future grant propagation and access checks. The admin cannot be revoked.
func (e *Engine) RevokeViewer(caller, principal common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(sv, caller); err != nil {
		return err
	}
	if principal == sv.Admin {
		return ErrInvalidViewer
	}
	entry, err := e.stg.Viewer(principal)
	if err != nil {
		return fmt.Errorf("read viewer entry: %w", err)
	}
	if !entry.IsAuthorized {
		return ErrViewerNotAuthorized
	}
	list, err := e.stg.ViewerList()
	if err != nil {
		return fmt.Errorf("read viewer list: %w", err)
	}
	for i, addr := range list {
		if addr == principal {
			list[i] = list[len(list)-1]
			list = list[:len(list)-1]
			break
		}
	}
	if err := e.stg.ApplyViewerChange(principal, nil, list); err != nil {
		return fmt.Errorf("store viewer registry: %w", err)
	}
	log.Infow("viewer revoked", "principal", principal.Hex())
	return nil
}

// HasValidAccess reports whether a principal is authorized and, if an expiry
// is set, whether it has not yet passed.
func (e *Engine) HasValidAccess(principal common.Address) (bool, error) {
	entry, err := e.stg.Viewer(principal)
	if err != nil {
		return false, fmt.Errorf("read viewer entry: %w", err)
	}
	if !entry.IsAuthorized {
		return false, nil
	}
	return entry.AccessExpiry.IsZero() || !e.now().After(entry.AccessExpiry), nil
}

// AuthorizedViewers returns the enumerable authorized-viewer list.
func (e *Engine) AuthorizedViewers() ([]common.Address, error) {
	return e.stg.ViewerList()
}

// ViewerDetails returns the registry entry of a principal together with the
// access check evaluated against the engine clock.
func (e *Engine) ViewerDetails(principal common.Address) (*types.ViewerDetails, error) {
	entry, err := e.stg.Viewer(principal)
	if err != nil {
		return nil, fmt.Errorf("read viewer entry: %w", err)
	}
	hasAccess, err := e.HasValidAccess(principal)
	if err != nil {
		return nil, err
	}
	return &types.ViewerDetails{
		Principal:    principal,
		IsAuthorized: entry.IsAuthorized,
		Role:         entry.Role,
		AccessExpiry: entry.AccessExpiry,
		HasAccess:    hasAccess,
	}, nil
}
