package survey

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/log"
)

// SubmitResponse records a single vote for one option. The ciphertext blob is
// imported and proof-verified, folded homomorphically into the option tally,
// and the updated tally is granted to the admin and all authorized viewers.
// The caller can only respond once until a withdrawal clears the flag.
func (e *Engine) SubmitResponse(caller common.Address, optionIndex int, blob, proof []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.checkActive(sv); err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= len(sv.Metadata.Options) {
		return ErrInvalidOption
	}
	record, err := e.stg.Response(caller)
	if err != nil {
		return fmt.Errorf("read response record: %w", err)
	}
	if record.HasResponded {
		return ErrAlreadyResponded
	}
	c, err := e.enc.Import(blob, proof)
	if err != nil {
		return err
	}
	tally, err := e.stg.Tally(optionIndex)
	if err != nil {
		return fmt.Errorf("read tally %d: %w", optionIndex, err)
	}
	sum, err := e.enc.Add(tally, c)
	if err != nil {
		return fmt.Errorf("fold ciphertext into tally %d: %w", optionIndex, err)
	}

	record.HasResponded = true
	record.ChosenOptions = append(record.ChosenOptions, optionIndex)
	if err := e.stg.ApplySubmission(caller, record, map[int]types.HexBytes{optionIndex: sum}); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	if err := e.grantToViewers(sv, sum); err != nil {
		return err
	}

	log.Debugw("response submitted", "participant", caller.Hex(), "option", optionIndex)
	e.emit(&types.Event{
		Name:        types.EventResponseSubmitted,
		Principal:   caller,
		OptionIndex: optionIndex,
	})
	return nil
}

// SubmitBatchResponse records one vote per element, each targeting its own
// option. The batch is all-or-nothing: every element is validated and
// imported before any tally or ledger mutation is committed.
func (e *Engine) SubmitBatchResponse(caller common.Address, optionIndices []int, blobs, proofs [][]byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.checkActive(sv); err != nil {
		return err
	}
	if len(optionIndices) != len(blobs) || len(optionIndices) != len(proofs) {
		return ErrArityMismatch
	}
	if len(optionIndices) == 0 {
		return ErrEmptyBatch
	}
	record, err := e.stg.Response(caller)
	if err != nil {
		return fmt.Errorf("read response record: %w", err)
	}
	if record.HasResponded {
		return ErrAlreadyResponded
	}
	for _, index := range optionIndices {
		if index < 0 || index >= len(sv.Metadata.Options) {
			return ErrInvalidOption
		}
	}

	// Fold every ciphertext before committing anything. Repeated indices
	// accumulate on the staged value, not on the stored one.
	updated := make(map[int]types.HexBytes, len(optionIndices))
	for i, index := range optionIndices {
		c, err := e.enc.Import(blobs[i], proofs[i])
		if err != nil {
			return err
		}
		base, ok := updated[index]
		if !ok {
			base, err = e.stg.Tally(index)
			if err != nil {
				return fmt.Errorf("read tally %d: %w", index, err)
			}
		}
		sum, err := e.enc.Add(base, c)
		if err != nil {
			return fmt.Errorf("fold ciphertext into tally %d: %w", index, err)
		}
		updated[index] = sum
	}

	record.HasResponded = true
	record.ChosenOptions = append([]int{}, optionIndices...)
	if err := e.stg.ApplySubmission(caller, record, updated); err != nil {
		return fmt.Errorf("commit batch submission: %w", err)
	}
	for _, sum := range updated {
		if err := e.grantToViewers(sv, sum); err != nil {
			return err
		}
	}

	log.Debugw("batch response submitted", "participant", caller.Hex(), "count", len(optionIndices))
	e.emit(&types.Event{
		Name:          types.EventBatchResponseSubmitted,
		Principal:     caller,
		OptionIndices: append([]int{}, optionIndices...),
		Count:         len(optionIndices),
	})
	return nil
}

// WithdrawAndResubmit clears the caller's response record so one fresh
// submission becomes possible. The prior contribution stays counted in the
// tallies; only the eligibility flag and the recorded choices reset.
// Withdrawal is refused inside the buffer window before the deadline.
func (e *Engine) WithdrawAndResubmit(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.checkActive(sv); err != nil {
		return err
	}
	record, err := e.stg.Response(caller)
	if err != nil {
		return fmt.Errorf("read response record: %w", err)
	}
	if !record.HasResponded {
		return ErrNoPriorResponse
	}
	if e.now().After(sv.Deadline.Add(-WithdrawalBuffer)) {
		return ErrTooLateToWithdraw
	}

	oldOptions := record.ChosenOptions
	if err := e.stg.SetResponse(caller, &types.ResponseRecord{}); err != nil {
		return fmt.Errorf("clear response record: %w", err)
	}

	log.Debugw("response withdrawn", "participant", caller.Hex(), "oldOptions", oldOptions)
	e.emit(&types.Event{
		Name:       types.EventVoteUpdated,
		Principal:  caller,
		OldOptions: oldOptions,
		NewOptions: []int{},
	})
	return nil
}
