// Package elgamal implements additively homomorphic ElGamal encryption over
// the curves provided by crypto/ecc. Messages are encoded in the exponent, so
// adding two ciphertexts yields an encryption of the sum of the plaintexts;
// decryption recovers small messages by solving the discrete logarithm with
// baby-step giant-step.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/vocdoni/confidential-survey/crypto/ecc"
)

// RandK generates a random encryption nonce in [1, order).
func RandK(order *big.Int) (*big.Int, error) {
	k, err := rand.Int(rand.Reader, order)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random k: %w", err)
	}
	if k.Sign() == 0 {
		k.SetUint64(1)
	}
	return k, nil
}

// GenerateKey generates a new ElGamal key pair on the given curve.
func GenerateKey(curve ecc.Point) (publicKey ecc.Point, privateKey *big.Int, err error) {
	d, err := rand.Int(rand.Reader, curve.Order())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key scalar: %w", err)
	}
	if d.Sign() == 0 {
		d = big.NewInt(1)
	}
	publicKey = curve.New()
	publicKey.SetGenerator()
	publicKey.ScalarMult(publicKey, d)
	return publicKey, d, nil
}

// EncryptWithK encrypts msg under pubKey using the provided nonce k.
// It returns the ciphertext points (C1, C2) = (k*G, msg*G + k*pubKey).
func EncryptWithK(pubKey ecc.Point, msg, k *big.Int) (ecc.Point, ecc.Point, error) {
	m := new(big.Int).Mod(msg, pubKey.Order())
	c1 := pubKey.New()
	c1.ScalarBaseMult(k)
	s := pubKey.New()
	s.ScalarMult(pubKey, k)
	mp := pubKey.New()
	mp.ScalarBaseMult(m)
	c2 := pubKey.New()
	c2.Add(mp, s)
	return c1, c2, nil
}

// Encrypt encrypts msg under pubKey with a fresh random nonce, returning the
// ciphertext points and the nonce used.
func Encrypt(pubKey ecc.Point, msg *big.Int) (ecc.Point, ecc.Point, *big.Int, error) {
	k, err := RandK(pubKey.Order())
	if err != nil {
		return nil, nil, nil, err
	}
	c1, c2, err := EncryptWithK(pubKey, msg, k)
	if err != nil {
		return nil, nil, nil, err
	}
	return c1, c2, k, nil
}

// Decrypt recovers the plaintext of (c1, c2) using the private key, assuming
// the message lies in [0, maxMessage]. It returns the message point
// M = c2 - d*c1 and the message scalar, or an error if no solution is found
// within the bound.
func Decrypt(privateKey *big.Int, c1, c2 ecc.Point, maxMessage uint64) (ecc.Point, *big.Int, error) {
	dc1 := c2.New()
	dc1.ScalarMult(c1, privateKey)
	dc1.Neg(dc1)

	m := c2.New()
	m.Set(c2)
	m.Add(m, dc1)

	g := c2.New()
	g.SetGenerator()
	msg, err := babyStepGiantStep(m, g, maxMessage)
	if err != nil {
		return nil, nil, err
	}
	return m, msg, nil
}

// babyStepGiantStep solves M = x*G for x in [0, maxMessage].
func babyStepGiantStep(m, g ecc.Point, maxMessage uint64) (*big.Int, error) {
	steps := uint64(math.Sqrt(float64(maxMessage))) + 1

	baby := m.New()
	baby.SetZero()
	table := make(map[string]uint64, steps)
	for j := uint64(0); j < steps; j++ {
		table[baby.String()] = j
		baby.Add(baby, g)
	}

	// stride = -steps*G
	stride := m.New()
	stride.ScalarBaseMult(new(big.Int).SetUint64(steps))
	stride.Neg(stride)

	giant := m.New()
	giant.Set(m)
	for i := uint64(0); i <= steps; i++ {
		if j, ok := table[giant.String()]; ok {
			return new(big.Int).SetUint64(i*steps + j), nil
		}
		giant.Add(giant, stride)
	}
	return nil, fmt.Errorf("discrete log not found within bound %d", maxMessage)
}

// CheckK reports whether the nonce k produced the ciphertext point c1, i.e.
// c1 == k*G. It does not require the private key or the message.
func CheckK(c1 ecc.Point, k *big.Int) bool {
	check := c1.New()
	check.ScalarBaseMult(k)
	return check.Equal(c1)
}
