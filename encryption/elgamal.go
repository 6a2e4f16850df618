package encryption

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/vocdoni/arbo"
	"github.com/vocdoni/confidential-survey/crypto/ecc"
	"github.com/vocdoni/confidential-survey/crypto/ecc/curves"
	"github.com/vocdoni/confidential-survey/crypto/elgamal"
	"github.com/vocdoni/confidential-survey/crypto/ethereum"
	"github.com/vocdoni/confidential-survey/types"
)

// ProofVerifier validates that a ciphertext blob is a well-formed encryption
// under the given public key. The default implementation checks a Poseidon
// binding digest; a zk-SNARK verifier can be plugged in instead without
// touching the engine.
type ProofVerifier interface {
	Verify(blob, proof []byte, publicKey ecc.Point) error
}

// PoseidonVerifier checks that the proof equals the Poseidon digest of the
// ciphertext coordinates bound to the survey public key.
type PoseidonVerifier struct{}

// Verify implements the ProofVerifier interface.
func (PoseidonVerifier) Verify(blob, proof []byte, publicKey ecc.Point) error {
	expected, err := ProveBinding(blob, publicKey)
	if err != nil {
		return ErrProofInvalid
	}
	if len(proof) != len(expected) {
		return ErrProofInvalid
	}
	for i := range proof {
		if proof[i] != expected[i] {
			return ErrProofInvalid
		}
	}
	return nil
}

// ProveBinding computes the Poseidon binding digest of a serialized ciphertext
// under the given public key. Clients call it to produce the proof that
// accompanies an encrypted vote.
func ProveBinding(blob []byte, publicKey ecc.Point) ([]byte, error) {
	if len(blob) != elgamal.SizeCiphertext {
		return nil, fmt.Errorf("invalid ciphertext length: %d", len(blob))
	}
	coordSize := elgamal.SizeCiphertext / 4
	pkx, pky := publicKey.Point()
	inputs := make([]*big.Int, 0, 6)
	for i := 0; i < 4; i++ {
		coord := arbo.BytesToBigInt(blob[i*coordSize : (i+1)*coordSize])
		inputs = append(inputs, arbo.BigToFF(arbo.BN254BaseField, coord))
	}
	inputs = append(inputs,
		arbo.BigToFF(arbo.BN254BaseField, pkx),
		arbo.BigToFF(arbo.BN254BaseField, pky))
	digest, err := poseidon.Hash(inputs)
	if err != nil {
		return nil, fmt.Errorf("poseidon hash failed: %w", err)
	}
	return arbo.BigIntToBytes(32, digest), nil
}

// GrantStore persists decryption grants so the ledger survives restarts. The
// digest identifies a ciphertext by the hash of its serialized form.
type GrantStore interface {
	SaveGrant(digest []byte, principal common.Address) error
	LoadGrants(apply func(digest []byte, principal common.Address)) error
}

// ElGamalService implements the Service interface with additively homomorphic
// ElGamal over one of the supported curves. It also plays the decryption
// oracle role: a principal holding a grant can obtain the plaintext of the
// granted ciphertext through Decrypt.
type ElGamalService struct {
	curveType  string
	publicKey  ecc.Point
	privateKey *big.Int
	verifier   ProofVerifier

	grantsLock sync.RWMutex
	grants     map[string]map[common.Address]struct{}
	store      GrantStore
}

// NewElGamalService generates a fresh key pair on the given curve type and
// returns a ready-to-use service with the default Poseidon proof verifier.
func NewElGamalService(curveType string) (*ElGamalService, error) {
	pub, priv, err := elgamal.GenerateKey(curves.New(curveType))
	if err != nil {
		return nil, fmt.Errorf("could not generate encryption key: %w", err)
	}
	return &ElGamalService{
		curveType:  curveType,
		publicKey:  pub,
		privateKey: priv,
		verifier:   PoseidonVerifier{},
		grants:     make(map[string]map[common.Address]struct{}),
	}, nil
}

// NewElGamalServiceFromKey rebuilds a service from an existing private key, so
// the key pair survives process restarts. The public key is derived from the
// scalar.
func NewElGamalServiceFromKey(curveType string, privateKey *big.Int) (*ElGamalService, error) {
	pub := curves.New(curveType)
	if privateKey == nil || privateKey.Sign() <= 0 || privateKey.Cmp(pub.Order()) >= 0 {
		return nil, fmt.Errorf("private key scalar out of range")
	}
	pub.SetGenerator()
	pub.ScalarMult(pub, privateKey)
	return &ElGamalService{
		curveType:  curveType,
		publicKey:  pub,
		privateKey: new(big.Int).Set(privateKey),
		verifier:   PoseidonVerifier{},
		grants:     make(map[string]map[common.Address]struct{}),
	}, nil
}

// PrivateKey returns a copy of the private key scalar, for persistence by the
// owning node. It must never be exposed to clients.
func (s *ElGamalService) PrivateKey() *big.Int {
	return new(big.Int).Set(s.privateKey)
}

// SetGrantStore attaches a persistent grant ledger. Grants already in the
// store are loaded into memory, and every new grant is written through.
func (s *ElGamalService) SetGrantStore(store GrantStore) error {
	s.grantsLock.Lock()
	defer s.grantsLock.Unlock()
	s.store = store
	return store.LoadGrants(func(digest []byte, principal common.Address) {
		key := string(digest)
		if s.grants[key] == nil {
			s.grants[key] = make(map[common.Address]struct{})
		}
		s.grants[key][principal] = struct{}{}
	})
}

// SetVerifier replaces the proof verifier used by Import.
func (s *ElGamalService) SetVerifier(v ProofVerifier) {
	s.verifier = v
}

// Zero implements the Service interface.
func (s *ElGamalService) Zero() types.HexBytes {
	return elgamal.NewCiphertext(curves.New(s.curveType)).Serialize()
}

// Import implements the Service interface.
func (s *ElGamalService) Import(blob, proof []byte) (types.HexBytes, error) {
	if _, err := s.deserialize(blob); err != nil {
		return nil, ErrProofInvalid
	}
	if err := s.verifier.Verify(blob, proof, s.publicKey); err != nil {
		return nil, ErrProofInvalid
	}
	imported := make(types.HexBytes, len(blob))
	copy(imported, blob)
	return imported, nil
}

// Add implements the Service interface.
func (s *ElGamalService) Add(a, b types.HexBytes) (types.HexBytes, error) {
	ca, err := s.deserialize(a)
	if err != nil {
		return nil, err
	}
	cb, err := s.deserialize(b)
	if err != nil {
		return nil, err
	}
	sum := elgamal.NewCiphertext(curves.New(s.curveType))
	sum.Add(ca, cb)
	return sum.Serialize(), nil
}

// GrantDecryption implements the Service interface. Grants are recorded per
// (ciphertext, principal) pair, written through to the grant store when one
// is attached, and never removed.
func (s *ElGamalService) GrantDecryption(c types.HexBytes, principal common.Address) error {
	if _, err := s.deserialize(c); err != nil {
		return err
	}
	digest := ethereum.HashRaw(c)
	key := string(digest)
	s.grantsLock.Lock()
	defer s.grantsLock.Unlock()
	if _, ok := s.grants[key][principal]; ok {
		return nil
	}
	if s.store != nil {
		if err := s.store.SaveGrant(digest, principal); err != nil {
			return fmt.Errorf("persist grant: %w", err)
		}
	}
	if s.grants[key] == nil {
		s.grants[key] = make(map[common.Address]struct{})
	}
	s.grants[key][principal] = struct{}{}
	return nil
}

// HasGrant implements the Service interface.
func (s *ElGamalService) HasGrant(c types.HexBytes, principal common.Address) bool {
	key := string(ethereum.HashRaw(c))
	s.grantsLock.RLock()
	defer s.grantsLock.RUnlock()
	_, ok := s.grants[key][principal]
	return ok
}

// IsZero implements the Service interface.
func (s *ElGamalService) IsZero(c types.HexBytes) bool {
	ct, err := s.deserialize(c)
	if err != nil {
		return false
	}
	return ct.IsZero()
}

// PublicKey implements the Service interface.
func (s *ElGamalService) PublicKey() *types.EncryptionKey {
	x, y := s.publicKey.Point()
	return &types.EncryptionKey{X: x, Y: y}
}

// EncryptValue encrypts a small unsigned value under the survey key and
// returns the (blob, proof) pair a participant submits. This is the
// client-side half of the vote flow, exposed for clients and tests.
func (s *ElGamalService) EncryptValue(value uint64) (blob, proof types.HexBytes, err error) {
	c := elgamal.NewCiphertext(curves.New(s.curveType))
	if _, err := c.Encrypt(new(big.Int).SetUint64(value), s.publicKey, nil); err != nil {
		return nil, nil, err
	}
	blob = c.Serialize()
	proof, err = ProveBinding(blob, s.publicKey)
	if err != nil {
		return nil, nil, err
	}
	return blob, proof, nil
}

// Decrypt returns the plaintext of c for a principal holding a decryption
// grant, assuming the plaintext lies in [0, maxValue]. Principals without a
// grant are refused: grants are the only path to plaintext.
func (s *ElGamalService) Decrypt(c types.HexBytes, principal common.Address, maxValue uint64) (uint64, error) {
	if !s.HasGrant(c, principal) {
		return 0, fmt.Errorf("principal %s holds no decryption grant", principal)
	}
	ct, err := s.deserialize(c)
	if err != nil {
		return 0, err
	}
	_, msg, err := elgamal.Decrypt(s.privateKey, ct.C1, ct.C2, maxValue)
	if err != nil {
		return 0, err
	}
	return msg.Uint64(), nil
}

func (s *ElGamalService) deserialize(blob []byte) (*elgamal.Ciphertext, error) {
	c := elgamal.NewCiphertext(curves.New(s.curveType))
	if err := c.Deserialize(blob); err != nil {
		return nil, fmt.Errorf("malformed ciphertext: %w", err)
	}
	return c, nil
}
