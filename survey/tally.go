package survey

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
)

// Survey returns the current survey document.
func (e *Engine) Survey() (*types.Survey, error) {
	return e.survey()
}

// SurveyMetadata returns the frozen survey configuration.
func (e *Engine) SurveyMetadata() (*types.SurveyMetadata, error) {
	sv, err := e.survey()
	if err != nil {
		return nil, err
	}
	return &sv.Metadata, nil
}

// OptionsCount returns the number of survey options.
func (e *Engine) OptionsCount() (int, error) {
	sv, err := e.survey()
	if err != nil {
		return 0, err
	}
	return len(sv.Metadata.Options), nil
}

// OptionLabel returns the label of one option.
func (e *Engine) OptionLabel(index int) (string, error) {
	sv, err := e.survey()
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(sv.Metadata.Options) {
		return "", ErrInvalidOption
	}
	return sv.Metadata.Options[index], nil
}

// HasResponded reports whether a participant currently holds a recorded
// response.
func (e *Engine) HasResponded(principal common.Address) (bool, error) {
	record, err := e.stg.Response(principal)
	if err != nil {
		return false, fmt.Errorf("read response record: %w", err)
	}
	return record.HasResponded, nil
}

// UserVotes returns the option indices a participant currently has recorded,
// reflecting any withdrawal.
func (e *Engine) UserVotes(principal common.Address) ([]int, error) {
	record, err := e.stg.Response(principal)
	if err != nil {
		return nil, fmt.Errorf("read response record: %w", err)
	}
	return record.ChosenOptions, nil
}

// EncryptedTally returns the opaque ciphertext handle of one option's tally.
func (e *Engine) EncryptedTally(index int) (types.HexBytes, error) {
	sv, err := e.survey()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sv.Metadata.Options) {
		return nil, ErrInvalidOption
	}
	return e.stg.Tally(index)
}

// AllEncryptedTallies returns the full ordered sequence of tally handles.
func (e *Engine) AllEncryptedTallies() ([]types.HexBytes, error) {
	sv, err := e.survey()
	if err != nil {
		return nil, err
	}
	return e.stg.Tallies(len(sv.Metadata.Options))
}

// SurveyStats summarizes the survey state. The participation estimate counts
// the options with a non-empty tally, which is an approximation rather than a
// distinct-respondent count.
func (e *Engine) SurveyStats() (*types.SurveyStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return nil, err
	}
	nonEmpty, err := e.countNonEmptyTallies(sv)
	if err != nil {
		return nil, err
	}
	viewers, err := e.stg.ViewerList()
	if err != nil {
		return nil, fmt.Errorf("read viewer list: %w", err)
	}
	return &types.SurveyStats{
		OptionCount:           len(sv.Metadata.Options),
		OptionsWithVotes:      nonEmpty,
		EstimatedParticipants: nonEmpty,
		AuthorizedViewers:     len(viewers),
		IsActive:              sv.IsActive && !e.now().After(sv.Deadline),
		Deadline:              sv.Deadline,
	}, nil
}

// ResultSummary returns the per-option encrypted results. Tallies stay
// opaque; only the non-empty markers leak which options received votes.
func (e *Engine) ResultSummary() (*types.ResultSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return nil, err
	}
	tallies, err := e.stg.Tallies(len(sv.Metadata.Options))
	if err != nil {
		return nil, fmt.Errorf("read tallies: %w", err)
	}
	nonEmpty := make([]bool, len(tallies))
	for i, tally := range tallies {
		nonEmpty[i] = !e.enc.IsZero(tally)
	}
	return &types.ResultSummary{
		Options:  sv.Metadata.Options,
		NonEmpty: nonEmpty,
		Tallies:  tallies,
	}, nil
}

// TopOptions returns up to count option indices whose tally is non-empty, in
// storage order. This is not a ranking by vote count, which would require
// decrypting the tallies.
func (e *Engine) TopOptions(count int) ([]int, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	sv, err := e.survey()
	if err != nil {
		return nil, err
	}
	indices := []int{}
	for i := range sv.Metadata.Options {
		tally, err := e.stg.Tally(i)
		if err != nil {
			return nil, fmt.Errorf("read tally %d: %w", i, err)
		}
		if e.enc.IsZero(tally) {
			continue
		}
		indices = append(indices, i)
		if len(indices) == count {
			break
		}
	}
	return indices, nil
}

func (e *Engine) countNonEmptyTallies(sv *types.Survey) (int, error) {
	nonEmpty := 0
	for i := range sv.Metadata.Options {
		tally, err := e.stg.Tally(i)
		if err != nil {
			return 0, fmt.Errorf("read tally %d: %w", i, err)
		}
		if !e.enc.IsZero(tally) {
			nonEmpty++
		}
	}
	return nonEmpty, nil
}
