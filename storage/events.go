package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// eventSeqKey holds the last assigned sequence number. It lives under the
// event prefix but is skipped by Events, which only reads 8-byte keys.
var eventSeqKey = []byte("seq")

// AppendEvent assigns the next sequence number to the event and appends it to
// the event log, advancing the counter in the same write transaction.
func (s *Storage) AppendEvent(event *types.Event) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	last, err := s.lastEventSeq()
	if err != nil {
		return err
	}
	event.Seq = last + 1
	data, err := encodeArtifact(event)
	if err != nil {
		return err
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, event.Seq)
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), eventPrefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	if err := wTx.Set(eventSeqKey, key); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// lastEventSeq reads the sequence counter, falling back to a one-time scan of
// the log for databases written before the counter existed.
func (s *Storage) lastEventSeq() (uint64, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, eventPrefix)
	data, err := rd.Get(eventSeqKey)
	if err == nil && len(data) == 8 {
		return binary.BigEndian.Uint64(data), nil
	}
	if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		return 0, fmt.Errorf("read event counter: %w", err)
	}
	last := uint64(0)
	if err := rd.Iterate(nil, func(k, _ []byte) bool {
		if len(k) == 8 {
			if seq := binary.BigEndian.Uint64(k); seq > last {
				last = seq
			}
		}
		return true
	}); err != nil {
		return 0, fmt.Errorf("iterate events: %w", err)
	}
	return last, nil
}

// Events returns up to max events with sequence number >= fromSeq, in
// sequence order. A max of zero or less means no limit.
func (s *Storage) Events(fromSeq uint64, max int) ([]*types.Event, error) {
	var events []*types.Event
	rd := prefixeddb.NewPrefixedReader(s.db, eventPrefix)
	if err := rd.Iterate(nil, func(k, v []byte) bool {
		if len(k) != 8 || binary.BigEndian.Uint64(k) < fromSeq {
			return true
		}
		event := &types.Event{}
		if err := decodeArtifact(v, event); err != nil {
			return true
		}
		events = append(events, event)
		return max <= 0 || len(events) < max
	}); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
