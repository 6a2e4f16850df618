package survey

import (
	"github.com/google/uuid"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/log"
)

// emit stamps, persists and fans out an event. Persistence failures are
// logged and do not fail the operation that produced the event. Slow
// subscribers are skipped rather than blocking the engine.
func (e *Engine) emit(event *types.Event) {
	event.ID = uuid.New().String()
	event.Timestamp = e.now()
	if err := e.stg.AppendEvent(event); err != nil {
		log.Warnw("failed to persist event", "name", event.Name, "error", err)
	}

	e.subLock.RLock()
	defer e.subLock.RUnlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a live event channel. The returned function cancels the
// subscription and closes the channel.
func (e *Engine) Subscribe() (<-chan *types.Event, func()) {
	e.subLock.Lock()
	defer e.subLock.Unlock()

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan *types.Event, 16)
	e.subscribers[id] = ch

	cancel := func() {
		e.subLock.Lock()
		defer e.subLock.Unlock()
		if _, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Events returns persisted events with sequence number >= fromSeq, up to max
// entries (zero or less means no limit).
func (e *Engine) Events(fromSeq uint64, max int) ([]*types.Event, error) {
	return e.stg.Events(fromSeq, max)
}
