package storage

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
	"go.vocdoni.io/dvote/db/prefixeddb"
)

// keyMaterialKey is the singleton key of the encryption key material.
var keyMaterialKey = []byte("key")

// KeyMaterial is the persisted encryption key of the survey. It never leaves
// the node; storing it lets the published public key, the decryption oracle
// and the grant ledger survive restarts.
type KeyMaterial struct {
	Curve      string        `cbor:"curve"`
	PrivateKey *types.BigInt `cbor:"privateKey"`
}

// KeyMaterial retrieves the stored encryption key. It returns ErrNotFound if
// no key has been stored yet.
func (s *Storage) KeyMaterial() (*KeyMaterial, error) {
	km := &KeyMaterial{}
	if err := s.getArtifact(keyPrefix, keyMaterialKey, km); err != nil {
		return nil, err
	}
	return km, nil
}

// SetKeyMaterial stores the encryption key material.
func (s *Storage) SetKeyMaterial(km *KeyMaterial) error {
	if km == nil || km.PrivateKey == nil {
		return fmt.Errorf("nil key material")
	}
	return s.setArtifact(keyPrefix, keyMaterialKey, km)
}

// SaveGrant records a decryption grant for a ciphertext digest. Grants are
// append-only; there is no delete path.
func (s *Storage) SaveGrant(digest []byte, principal common.Address) error {
	if len(digest) == 0 {
		return fmt.Errorf("empty ciphertext digest")
	}
	key := make([]byte, 0, len(digest)+common.AddressLength)
	key = append(key, digest...)
	key = append(key, principal.Bytes()...)
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), grantPrefix)
	if err := wTx.Set(key, []byte{}); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// LoadGrants replays every stored grant through apply, so an in-memory grant
// ledger can be rebuilt after a restart.
func (s *Storage) LoadGrants(apply func(digest []byte, principal common.Address)) error {
	rd := prefixeddb.NewPrefixedReader(s.db, grantPrefix)
	return rd.Iterate(nil, func(k, _ []byte) bool {
		if len(k) <= common.AddressLength {
			return true
		}
		digest := make([]byte, len(k)-common.AddressLength)
		copy(digest, k[:len(digest)])
		apply(digest, common.BytesToAddress(k[len(digest):]))
		return true
	})
}
