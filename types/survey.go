package types

import (
	"encoding/json"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ViewerRole is the access level of an authorized tally viewer.
type ViewerRole uint8

const (
	// RoleNone is the zero role, held by principals outside the viewer set.
	RoleNone ViewerRole = iota
	// RoleBasic viewers receive decryption grants on tallies.
	RoleBasic
	// RoleAnalyst viewers receive decryption grants and are expected to run
	// result analytics on the decrypted values.
	RoleAnalyst
	// RoleAdmin is held by the survey administrator.
	RoleAdmin
)

// String returns a human readable name for the role.
func (r ViewerRole) String() string {
	switch r {
	case RoleBasic:
		return "basic"
	case RoleAnalyst:
		return "analyst"
	case RoleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Valid reports whether r is a role that can be assigned to a viewer.
func (r ViewerRole) Valid() bool {
	return r >= RoleBasic && r <= RoleAdmin
}

// SurveyMetadata is the immutable configuration of a survey, frozen at
// creation time. Options are identified by their index into the list.
type SurveyMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

// EncryptionKey is the public part of the survey encryption key pair, as the
// affine coordinates of a curve point.
type EncryptionKey struct {
	X *big.Int `json:"x"`
	Y *big.Int `json:"y"`
}

// Survey is the stored survey document: the frozen metadata plus the mutable
// lifecycle fields. The admin identity is set at creation and never changes.
type Survey struct {
	Metadata      SurveyMetadata `json:"metadata"`
	Admin         common.Address `json:"admin"`
	IsActive      bool           `json:"isActive"`
	Deadline      time.Time      `json:"deadline"`
	EncryptionKey *EncryptionKey `json:"encryptionKey,omitempty"`
}

func (s *Survey) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// ResponseRecord tracks a single participant: whether they already responded
// and which option indices they chose. Both fields reset on withdrawal.
type ResponseRecord struct {
	HasResponded  bool  `json:"hasResponded"`
	ChosenOptions []int `json:"chosenOptions"`
}

// ViewerEntry is the registry record for one principal.
type ViewerEntry struct {
	IsAuthorized bool       `json:"isAuthorized"`
	Role         ViewerRole `json:"role"`
	// AccessExpiry is the instant after which access checks fail. The zero
	// time means the authorization never expires.
	AccessExpiry time.Time `json:"accessExpiry"`
}

// ViewerDetails is the query view of a viewer entry, with the access check
// evaluated against the engine clock.
type ViewerDetails struct {
	Principal    common.Address `json:"principal"`
	IsAuthorized bool           `json:"isAuthorized"`
	Role         ViewerRole     `json:"role"`
	AccessExpiry time.Time      `json:"accessExpiry"`
	HasAccess    bool           `json:"hasAccess"`
}

// SurveyStats summarizes the state of a survey. EstimatedParticipants counts
// the options whose tally has received at least one increment; it is an
// approximation, not a distinct-respondent count, since batch submissions
// touch several options per participant.
type SurveyStats struct {
	OptionCount           int       `json:"optionCount"`
	OptionsWithVotes      int       `json:"optionsWithVotes"`
	EstimatedParticipants int       `json:"estimatedParticipants"`
	AuthorizedViewers     int       `json:"authorizedViewers"`
	IsActive              bool      `json:"isActive"`
	Deadline              time.Time `json:"deadline"`
}

// ResultSummary is the per-option view of the encrypted results. Tallies stay
// opaque; NonEmpty only reveals which options received at least one vote.
type ResultSummary struct {
	Options  []string   `json:"options"`
	NonEmpty []bool     `json:"nonEmpty"`
	Tallies  []HexBytes `json:"tallies"`
}
