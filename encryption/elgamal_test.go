package encryption

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/arbo/memdb"
	"github.com/vocdoni/confidential-survey/crypto/ecc/curves"
	"github.com/vocdoni/confidential-survey/storage"
)

func TestImportValidProof(t *testing.T) {
	svc, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	blob, proof, err := svc.EncryptValue(1)
	qt.Assert(t, err, qt.IsNil)

	imported, err := svc.Import(blob, proof)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, []byte(imported), qt.DeepEquals, []byte(blob))
}

func TestImportRejectsBadProof(t *testing.T) {
	svc, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	blob, proof, err := svc.EncryptValue(1)
	qt.Assert(t, err, qt.IsNil)

	// Tampered proof.
	bad := make([]byte, len(proof))
	copy(bad, proof)
	bad[0] ^= 0xff
	_, err = svc.Import(blob, bad)
	qt.Assert(t, err, qt.Equals, ErrProofInvalid)

	// Proof over a different ciphertext.
	otherBlob, otherProof, err := svc.EncryptValue(2)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, []byte(otherBlob), qt.Not(qt.DeepEquals), []byte(blob))
	_, err = svc.Import(blob, otherProof)
	qt.Assert(t, err, qt.Equals, ErrProofInvalid)

	// Malformed blob.
	_, err = svc.Import(blob[:10], proof)
	qt.Assert(t, err, qt.Equals, ErrProofInvalid)
}

func TestHomomorphicAddAndOracleDecrypt(t *testing.T) {
	svc, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	viewer := common.HexToAddress("0x1111111111111111111111111111111111111111")

	sum := svc.Zero()
	qt.Assert(t, svc.IsZero(sum), qt.IsTrue)
	for i := 0; i < 3; i++ {
		blob, proof, err := svc.EncryptValue(1)
		qt.Assert(t, err, qt.IsNil)
		c, err := svc.Import(blob, proof)
		qt.Assert(t, err, qt.IsNil)
		sum, err = svc.Add(sum, c)
		qt.Assert(t, err, qt.IsNil)
	}
	qt.Assert(t, svc.IsZero(sum), qt.IsFalse)

	// No grant, no plaintext.
	_, err = svc.Decrypt(sum, viewer, 10)
	qt.Assert(t, err, qt.Not(qt.IsNil))

	qt.Assert(t, svc.GrantDecryption(sum, viewer), qt.IsNil)
	qt.Assert(t, svc.HasGrant(sum, viewer), qt.IsTrue)

	value, err := svc.Decrypt(sum, viewer, 10)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, value, qt.Equals, uint64(3))
}

func TestGrantIdempotence(t *testing.T) {
	svc, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	blob, proof, err := svc.EncryptValue(1)
	qt.Assert(t, err, qt.IsNil)
	c, err := svc.Import(blob, proof)
	qt.Assert(t, err, qt.IsNil)

	viewer := common.HexToAddress("0x2222222222222222222222222222222222222222")
	other := common.HexToAddress("0x3333333333333333333333333333333333333333")

	qt.Assert(t, svc.GrantDecryption(c, viewer), qt.IsNil)
	qt.Assert(t, svc.GrantDecryption(c, viewer), qt.IsNil)
	qt.Assert(t, svc.HasGrant(c, viewer), qt.IsTrue)
	qt.Assert(t, svc.HasGrant(c, other), qt.IsFalse)
}

func TestServiceRebuiltFromKey(t *testing.T) {
	original, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	blob, proof, err := original.EncryptValue(1)
	qt.Assert(t, err, qt.IsNil)

	// A service rebuilt from the same scalar publishes the same key and
	// accepts ciphertexts produced before the rebuild.
	rebuilt, err := NewElGamalServiceFromKey(curves.CurveTypeBN254, original.PrivateKey())
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, rebuilt.PublicKey().X.Cmp(original.PublicKey().X), qt.Equals, 0)
	qt.Assert(t, rebuilt.PublicKey().Y.Cmp(original.PublicKey().Y), qt.Equals, 0)

	c, err := rebuilt.Import(blob, proof)
	qt.Assert(t, err, qt.IsNil)

	viewer := common.HexToAddress("0x4444444444444444444444444444444444444444")
	qt.Assert(t, rebuilt.GrantDecryption(c, viewer), qt.IsNil)
	value, err := rebuilt.Decrypt(c, viewer, 10)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, value, qt.Equals, uint64(1))

	// A fresh key pair rejects the old ciphertext's proof.
	fresh, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)
	_, err = fresh.Import(blob, proof)
	qt.Assert(t, err, qt.Equals, ErrProofInvalid)

	_, err = NewElGamalServiceFromKey(curves.CurveTypeBN254, nil)
	qt.Assert(t, err, qt.Not(qt.IsNil))
}

func TestGrantsSurviveRebuild(t *testing.T) {
	stg := storage.New(memdb.New())

	svc, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, svc.SetGrantStore(stg), qt.IsNil)

	blob, proof, err := svc.EncryptValue(2)
	qt.Assert(t, err, qt.IsNil)
	c, err := svc.Import(blob, proof)
	qt.Assert(t, err, qt.IsNil)

	viewer := common.HexToAddress("0x5555555555555555555555555555555555555555")
	qt.Assert(t, svc.GrantDecryption(c, viewer), qt.IsNil)

	rebuilt, err := NewElGamalServiceFromKey(curves.CurveTypeBN254, svc.PrivateKey())
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, rebuilt.HasGrant(c, viewer), qt.IsFalse)

	// Attaching the store replays the persisted grants.
	qt.Assert(t, rebuilt.SetGrantStore(stg), qt.IsNil)
	qt.Assert(t, rebuilt.HasGrant(c, viewer), qt.IsTrue)
	value, err := rebuilt.Decrypt(c, viewer, 10)
	qt.Assert(t, err, qt.IsNil)
	qt.Assert(t, value, qt.Equals, uint64(2))
}

func TestPublicKeyMatchesCurvePoint(t *testing.T) {
	svc, err := NewElGamalService(curves.CurveTypeBN254)
	qt.Assert(t, err, qt.IsNil)

	pk := svc.PublicKey()
	qt.Assert(t, pk, qt.Not(qt.IsNil))
	qt.Assert(t, pk.X, qt.Not(qt.IsNil))
	qt.Assert(t, pk.Y, qt.Not(qt.IsNil))
}
