package storage

import (
	"encoding/binary"
	"errors"

	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// Tallies are stored as raw serialized ciphertexts, keyed by option index;
// they are already fixed-width blobs, so no artifact encoding is applied.

func tallyKey(index int) []byte {
	key := make([]byte, 4)
	binary.BigEndian.PutUint32(key, uint32(index))
	return key
}

// Tally retrieves the encrypted tally of an option.
func (s *Storage) Tally(index int) (types.HexBytes, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, tallyPrefix)
	data, err := rd.Get(tallyKey(index))
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SetTally stores the encrypted tally of an option.
func (s *Storage) SetTally(index int, tally types.HexBytes) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), tallyPrefix)
	if err := wTx.Set(tallyKey(index), tally); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// Tallies returns the ordered tally list for the first count options.
func (s *Storage) Tallies(count int) ([]types.HexBytes, error) {
	tallies := make([]types.HexBytes, 0, count)
	for i := 0; i < count; i++ {
		tally, err := s.Tally(i)
		if err != nil {
			return nil, err
		}
		tallies = append(tallies, tally)
	}
	return tallies, nil
}
