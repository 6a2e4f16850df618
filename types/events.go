package types

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Event names emitted by the survey engine.
const (
	EventResponseSubmitted      = "ResponseSubmitted"
	EventBatchResponseSubmitted = "BatchResponseSubmitted"
	EventVoteUpdated            = "VoteUpdated"
	EventViewerAuthorized       = "ViewerAuthorized"
	EventSurveyActivated        = "SurveyActivated"
	EventSurveyClosed           = "SurveyClosed"
	EventDeadlineExtended       = "DeadlineExtended"
)

// Event is an entry of the survey event log. Only the fields relevant to the
// event name are populated.
type Event struct {
	ID        string         `json:"id"`
	Seq       uint64         `json:"seq"`
	Name      string         `json:"name"`
	Principal common.Address `json:"principal,omitempty"`
	// OptionIndex is set by ResponseSubmitted.
	OptionIndex int `json:"optionIndex,omitempty"`
	// OptionIndices and Count are set by BatchResponseSubmitted.
	OptionIndices []int `json:"optionIndices,omitempty"`
	Count         int   `json:"count,omitempty"`
	// OldOptions and NewOptions are set by VoteUpdated.
	OldOptions []int `json:"oldOptions,omitempty"`
	NewOptions []int `json:"newOptions,omitempty"`
	// Deadline is set by DeadlineExtended.
	Deadline  time.Time `json:"deadline,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
