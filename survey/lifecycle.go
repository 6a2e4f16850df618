package survey

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/log"
)

// CloseSurvey turns the explicit active flag off. Responses are rejected with
// ErrSurveyNotActive from then on, independently of the deadline.
func (e *Engine) CloseSurvey(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(sv, caller); err != nil {
		return err
	}
	if !sv.IsActive {
		return ErrSurveyNotActive
	}
	sv.IsActive = false
	if err := e.stg.SetSurvey(sv); err != nil {
		return fmt.Errorf("store survey: %w", err)
	}
	log.Infow("survey closed", "admin", caller.Hex())
	e.emit(&types.Event{Name: types.EventSurveyClosed})
	return nil
}

// ReopenSurvey turns the active flag back on. Reopening is only possible
// while the deadline has not passed.
func (e *Engine) ReopenSurvey(caller common.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(sv, caller); err != nil {
		return err
	}
	if e.now().After(sv.Deadline) {
		return ErrDeadlinePassedForReopen
	}
	sv.IsActive = true
	if err := e.stg.SetSurvey(sv); err != nil {
		return fmt.Errorf("store survey: %w", err)
	}
	log.Infow("survey reopened", "admin", caller.Hex())
	e.emit(&types.Event{Name: types.EventSurveyActivated})
	return nil
}

// RecordDeadlinePassed reports whether the deadline has passed on the engine
// clock and, on the first call after each passage, appends a SurveyClosed
// event making the implicit closing condition observable in the event log.
// The active flag is left untouched; deadline enforcement happens in the
// per-operation checks. Extending the deadline rearms the event.
func (e *Engine) RecordDeadlinePassed() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return false, err
	}
	if !e.now().After(sv.Deadline) {
		e.deadlineClosed = false
		return false, nil
	}
	if !e.deadlineClosed {
		e.deadlineClosed = true
		e.emit(&types.Event{Name: types.EventSurveyClosed})
	}
	return true, nil
}

// ExtendDeadline moves the deadline forward. The deadline only ever
// increases; the active flag is left untouched.
func (e *Engine) ExtendDeadline(caller common.Address, newDeadline time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sv, err := e.survey()
	if err != nil {
		return err
	}
	if err := e.requireAdmin(sv, caller); err != nil {
		return err
	}
	if !newDeadline.After(sv.Deadline) {
		return ErrDeadlineNotLater
	}
	sv.Deadline = newDeadline
	if err := e.stg.SetSurvey(sv); err != nil {
		return fmt.Errorf("store survey: %w", err)
	}
	e.deadlineClosed = false
	log.Infow("deadline extended", "admin", caller.Hex(), "deadline", newDeadline)
	e.emit(&types.Event{Name: types.EventDeadlineExtended, Deadline: newDeadline})
	return nil
}
