// Package storage persists the survey artifacts in a prefixed key-value store.
// Every artifact kind lives under its own prefix:
//   - 's/' for the survey document (singleton)
//   - 'r/' for response records, keyed by participant address
//   - 'w/' for viewer entries, keyed by principal address
//   - 'l/' for the ordered authorized-viewer list (singleton)
//   - 't/' for encrypted tallies, keyed by option index
//   - 'e/' for the event log, keyed by sequence number
//   - 'k/' for the encryption key material (singleton)
//   - 'g/' for decryption grants, keyed by ciphertext digest plus principal
//
// Artifacts are encoded with deterministic CBOR. Multi-artifact mutations
// (a submission touching tallies and the response ledger) commit in a single
// write transaction, so a failed operation leaves no partial state behind.
package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

var (
	surveyPrefix     = []byte("s/")
	responsePrefix   = []byte("r/")
	viewerPrefix     = []byte("w/")
	viewerListPrefix = []byte("l/")
	tallyPrefix      = []byte("t/")
	eventPrefix      = []byte("e/")
	keyPrefix        = []byte("k/")
	grantPrefix      = []byte("g/")
)

// ErrNotFound is returned when the requested artifact does not exist.
var ErrNotFound = errors.New("artifact not found")

// Storage wraps the key-value database with typed accessors for the survey
// artifacts.
type Storage struct {
	db         db.Database
	globalLock sync.Mutex
}

// New creates a new Storage instance over the given database.
func New(database db.Database) *Storage {
	return &Storage{db: database}
}

// Close closes the underlying database.
func (s *Storage) Close() {
	s.db.Close()
}

func encodeArtifact(a any) ([]byte, error) {
	opts := cbor.CoreDetEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

func (s *Storage) setArtifact(prefix, key []byte, artifact any) error {
	data, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, data); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rd.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return decodeArtifact(data, out)
}

func (s *Storage) deleteArtifact(prefix, key []byte) error {
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil {
		wTx.Discard()
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return wTx.Commit()
}
