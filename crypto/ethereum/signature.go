// Package ethereum provides the caller identity primitives: Ethereum-style
// message signatures and address recovery. The execution environment (the HTTP
// API) derives the principal of every mutating call from a signature, so
// principals cannot be forged by the caller.
package ethereum

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the expected length of an ECDSA signature with recovery id.
const SignatureLength = 65

// HashRaw computes the keccak256 hash of data.
func HashRaw(data []byte) []byte {
	return ethcrypto.Keccak256(data)
}

// HashMessage computes the hash of data prefixed per EIP-191, as produced by
// standard Ethereum wallets when signing arbitrary payloads.
func HashMessage(data []byte) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(data))
	return ethcrypto.Keccak256(append([]byte(prefix), data...))
}

// AddrFromSignature recovers the signer address of an EIP-191 prefixed
// signature over message.
func AddrFromSignature(message, signature []byte) (common.Address, error) {
	if len(signature) != SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(signature))
	}
	// normalize the recovery id: wallets produce 27/28, libsecp produces 0/1
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(HashMessage(message), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("could not recover public key: %w", err)
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// Signer holds an ECDSA private key and signs messages the way a wallet would.
type Signer struct {
	private *ecdsa.PrivateKey
}

// NewSigner generates a new random key pair.
func NewSigner() (*Signer, error) {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	return &Signer{private: key}, nil
}

// Address returns the Ethereum address of the signer.
func (s *Signer) Address() common.Address {
	return ethcrypto.PubkeyToAddress(s.private.PublicKey)
}

// SignMessage signs message with the EIP-191 prefix.
func (s *Signer) SignMessage(message []byte) ([]byte, error) {
	return ethcrypto.Sign(HashMessage(message), s.private)
}
