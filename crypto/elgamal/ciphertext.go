package elgamal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/vocdoni/arbo"
	"github.com/vocdoni/confidential-survey/crypto/ecc"
)

// Serialization sizes in bytes.
const (
	sizeCoord = 32
	sizePoint = 2 * sizeCoord
	// SizeCiphertext is the length of a serialized ciphertext.
	SizeCiphertext = 2 * sizePoint
)

// Ciphertext is an ElGamal encrypted value with homomorphic properties: adding
// two ciphertexts produces an encryption of the sum of the plaintexts.
type Ciphertext struct {
	C1 ecc.Point `json:"c1"`
	C2 ecc.Point `json:"c2"`
}

// NewCiphertext creates a zero Ciphertext on the same curve as the given
// point, i.e. both components set to the identity element. A zero ciphertext
// is the neutral element of homomorphic addition.
func NewCiphertext(curve ecc.Point) *Ciphertext {
	c1 := curve.New()
	c1.SetZero()
	c2 := curve.New()
	c2.SetZero()
	return &Ciphertext{C1: c1, C2: c2}
}

// Encrypt encrypts a message under the public key provided as a curve point.
// The nonce k can be provided, or nil to generate a fresh one.
func (z *Ciphertext) Encrypt(message *big.Int, publicKey ecc.Point, k *big.Int) (*Ciphertext, error) {
	var err error
	if k == nil {
		if k, err = RandK(publicKey.Order()); err != nil {
			return nil, fmt.Errorf("elgamal encryption failed: %w", err)
		}
	}
	c1, c2, err := EncryptWithK(publicKey, message, k)
	if err != nil {
		return nil, fmt.Errorf("elgamal encryption failed: %w", err)
	}
	z.C1 = c1
	z.C2 = c2
	return z, nil
}

// Add adds two Ciphertexts and stores the result in z, which is also returned.
func (z *Ciphertext) Add(x, y *Ciphertext) *Ciphertext {
	z.C1.SafeAdd(x.C1, y.C1)
	z.C2.SafeAdd(x.C2, y.C2)
	return z
}

// IsZero reports whether z is the zero ciphertext (both components identity).
func (z *Ciphertext) IsZero() bool {
	zero := z.C1.New()
	zero.SetZero()
	return z.C1.Equal(zero) && z.C2.Equal(zero)
}

// Serialize returns a slice of SizeCiphertext bytes, the coordinates
// C1.X, C1.Y, C2.X, C2.Y each as a fixed-width little-endian value.
func (z *Ciphertext) Serialize() []byte {
	var buf bytes.Buffer
	c1x, c1y := z.C1.Point()
	c2x, c2y := z.C2.Point()
	for _, coord := range []*big.Int{c1x, c1y, c2x, c2y} {
		buf.Write(arbo.BigIntToBytes(sizeCoord, coord))
	}
	return buf.Bytes()
}

// Deserialize reconstructs a Ciphertext from a slice produced by Serialize.
// The receiver's points must already be set to the target curve (as returned
// by NewCiphertext).
func (z *Ciphertext) Deserialize(data []byte) error {
	if len(data) != SizeCiphertext {
		return fmt.Errorf("invalid input length: got %d bytes, expected %d bytes", len(data), SizeCiphertext)
	}
	coord := func(i int) *big.Int {
		return arbo.BytesToBigInt(data[i*sizeCoord : (i+1)*sizeCoord])
	}
	z.C1 = z.C1.SetPoint(coord(0), coord(1))
	z.C2 = z.C2.SetPoint(coord(2), coord(3))
	return nil
}

// Marshal converts the Ciphertext to JSON.
func (z *Ciphertext) Marshal() ([]byte, error) {
	return json.Marshal(z)
}

// String returns a string representation of the Ciphertext.
func (z *Ciphertext) String() string {
	if z == nil || z.C1 == nil || z.C2 == nil {
		return "{C1: nil, C2: nil}"
	}
	return fmt.Sprintf("{C1: %s, C2: %s}", z.C1.String(), z.C2.String())
}
