// Package encryption defines the boundary between the survey engine and the
// homomorphic encryption layer. The engine only ever handles opaque ciphertext
// blobs through the Service interface: it can import (with proof verification),
// homomorphically add, and issue decryption grants, but it never observes a
// plaintext value.
package encryption

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vocdoni/confidential-survey/types"
)

// ErrProofInvalid is returned by Import when the accompanying proof does not
// validate the blob's encryption under the survey key.
var ErrProofInvalid = errors.New("ciphertext proof invalid")

// Service is the ciphertext abstraction consumed by the survey engine.
// Ciphertext handles are fixed-width serialized blobs, opaque to the caller.
type Service interface {
	// Zero returns the handle of the zero ciphertext, the neutral element of
	// homomorphic addition. Tallies are initialized to it.
	Zero() types.HexBytes

	// Import verifies that blob is a well-formed ciphertext encrypted under
	// the survey key, using the supplied proof. It returns the imported
	// handle, or ErrProofInvalid.
	Import(blob, proof []byte) (types.HexBytes, error)

	// Add returns the homomorphic sum of two ciphertext handles.
	Add(a, b types.HexBytes) (types.HexBytes, error)

	// GrantDecryption grants principal the right to decrypt the ciphertext c.
	// Granting twice to the same principal has no additional effect, and a
	// grant, once issued, is never retracted.
	GrantDecryption(c types.HexBytes, principal common.Address) error

	// HasGrant reports whether principal holds a decryption grant for c.
	HasGrant(c types.HexBytes, principal common.Address) bool

	// IsZero reports whether c is the zero ciphertext.
	IsZero(c types.HexBytes) bool

	// PublicKey returns the survey encryption public key.
	PublicKey() *types.EncryptionKey
}
