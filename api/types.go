package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
)

// Every mutating request carries an EIP-191 signature over a deterministic
// payload built from its fields. SignaturePayload builds that payload; clients
// must sign exactly the same bytes.

// SubmitResponseRequest submits a single encrypted vote.
type SubmitResponseRequest struct {
	OptionIndex int            `json:"optionIndex"`
	Blob        types.HexBytes `json:"blob"`
	Proof       types.HexBytes `json:"proof"`
	Signature   types.HexBytes `json:"signature"`
}

func (r *SubmitResponseRequest) SignaturePayload() []byte {
	return fmt.Appendf(nil, "survey-response:%d:%s:%s", r.OptionIndex, r.Blob.String(), r.Proof.String())
}

// SubmitBatchRequest submits one encrypted vote per option index.
type SubmitBatchRequest struct {
	OptionIndices []int            `json:"optionIndices"`
	Blobs         []types.HexBytes `json:"blobs"`
	Proofs        []types.HexBytes `json:"proofs"`
	Signature     types.HexBytes   `json:"signature"`
}

func (r *SubmitBatchRequest) SignaturePayload() []byte {
	indices := make([]string, len(r.OptionIndices))
	for i, index := range r.OptionIndices {
		indices[i] = fmt.Sprintf("%d", index)
	}
	blobs := make([]string, len(r.Blobs))
	for i, blob := range r.Blobs {
		blobs[i] = blob.String()
	}
	proofs := make([]string, len(r.Proofs))
	for i, proof := range r.Proofs {
		proofs[i] = proof.String()
	}
	return fmt.Appendf(nil, "survey-batch:%s:%s:%s",
		strings.Join(indices, ","), strings.Join(blobs, ","), strings.Join(proofs, ","))
}

// WithdrawRequest withdraws the caller's recorded response.
type WithdrawRequest struct {
	Signature types.HexBytes `json:"signature"`
}

func (r *WithdrawRequest) SignaturePayload() []byte {
	return []byte("survey-withdraw")
}

// AuthorizeViewerRequest authorizes a viewer. A zero Role means Basic; a zero
// Expiry means no expiry change.
type AuthorizeViewerRequest struct {
	Principal common.Address   `json:"principal"`
	Role      types.ViewerRole `json:"role,omitempty"`
	Expiry    time.Time        `json:"expiry,omitempty"`
	Signature types.HexBytes   `json:"signature"`
}

func (r *AuthorizeViewerRequest) SignaturePayload() []byte {
	expiry := int64(0)
	if !r.Expiry.IsZero() {
		expiry = r.Expiry.Unix()
	}
	return fmt.Appendf(nil, "survey-authorize:%s:%d:%d",
		strings.ToLower(r.Principal.Hex()), r.Role, expiry)
}

// RevokeViewerRequest revokes a viewer.
type RevokeViewerRequest struct {
	Principal common.Address `json:"principal"`
	Signature types.HexBytes `json:"signature"`
}

func (r *RevokeViewerRequest) SignaturePayload() []byte {
	return fmt.Appendf(nil, "survey-revoke:%s", strings.ToLower(r.Principal.Hex()))
}

// AccessRequest self-registers the caller as a basic viewer.
type AccessRequest struct {
	Signature types.HexBytes `json:"signature"`
}

func (r *AccessRequest) SignaturePayload() []byte {
	return []byte("survey-access")
}

// CloseRequest closes the survey.
type CloseRequest struct {
	Signature types.HexBytes `json:"signature"`
}

func (r *CloseRequest) SignaturePayload() []byte {
	return []byte("survey-close")
}

// ReopenRequest reopens the survey.
type ReopenRequest struct {
	Signature types.HexBytes `json:"signature"`
}

func (r *ReopenRequest) SignaturePayload() []byte {
	return []byte("survey-reopen")
}

// ExtendDeadlineRequest extends the survey deadline.
type ExtendDeadlineRequest struct {
	Deadline  time.Time      `json:"deadline"`
	Signature types.HexBytes `json:"signature"`
}

func (r *ExtendDeadlineRequest) SignaturePayload() []byte {
	return fmt.Appendf(nil, "survey-extend:%d", r.Deadline.Unix())
}

// ParticipantResponse is the query view of one participant.
type ParticipantResponse struct {
	Address      common.Address `json:"address"`
	HasResponded bool           `json:"hasResponded"`
	Votes        []int          `json:"votes"`
}

// OptionResponse is the query view of one option.
type OptionResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// TallyResponse is the query view of one encrypted tally.
type TallyResponse struct {
	Index int            `json:"index"`
	Tally types.HexBytes `json:"tally"`
}

// TalliesResponse is the query view of all encrypted tallies.
type TalliesResponse struct {
	Tallies []types.HexBytes `json:"tallies"`
}

// ViewersResponse lists the authorized viewers.
type ViewersResponse struct {
	Viewers []common.Address `json:"viewers"`
}

// TopOptionsResponse lists the non-empty option indices, in storage order.
type TopOptionsResponse struct {
	Indices []int `json:"indices"`
}

// EventsResponse is the query view of the persisted event log.
type EventsResponse struct {
	Events []*types.Event `json:"events"`
}
