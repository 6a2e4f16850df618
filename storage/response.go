package storage

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// Response retrieves the response record of a participant. Records exist
// implicitly for every identity: an address that never responded yields the
// zero record rather than ErrNotFound.
func (s *Storage) Response(addr common.Address) (*types.ResponseRecord, error) {
	record := &types.ResponseRecord{}
	err := s.getArtifact(responsePrefix, addr.Bytes(), record)
	if errors.Is(err, ErrNotFound) {
		return &types.ResponseRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SetResponse stores the response record of a participant.
func (s *Storage) SetResponse(addr common.Address, record *types.ResponseRecord) error {
	return s.setArtifact(responsePrefix, addr.Bytes(), record)
}

// ApplySubmission commits a response record together with the tallies it
// touched in a single write transaction, so that a submission is all-or-nothing
// even across artifact kinds.
func (s *Storage) ApplySubmission(addr common.Address, record *types.ResponseRecord, tallies map[int]types.HexBytes) error {
	s.globalLock.Lock()
	defer s.globalLock.Unlock()

	wTx := s.db.WriteTx()
	recordData, err := encodeArtifact(record)
	if err != nil {
		wTx.Discard()
		return err
	}
	rTx := prefixeddb.NewPrefixedWriteTx(wTx, responsePrefix)
	if err := rTx.Set(addr.Bytes(), recordData); err != nil {
		wTx.Discard()
		return err
	}
	tTx := prefixeddb.NewPrefixedWriteTx(wTx, tallyPrefix)
	for index, tally := range tallies {
		key := make([]byte, 4)
		binary.BigEndian.PutUint32(key, uint32(index))
		if err := tTx.Set(key, tally); err != nil {
			wTx.Discard()
			return err
		}
	}
	return wTx.Commit()
}
