package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is a big.Int wrapper which marshals as a decimal string in JSON and
// CBOR, so that arbitrary precision values survive the wire untouched.
type BigInt big.Int

// MathBigInt converts b to a math/big *big.Int.
func (b *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(b)
}

// SetUint64 sets b to x and returns b.
func (b *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)((*big.Int)(b).SetUint64(x))
}

// SetBytes interprets buf as big-endian unsigned integer, sets b and returns b.
func (b *BigInt) SetBytes(buf []byte) *BigInt {
	return (*BigInt)((*big.Int)(b).SetBytes(buf))
}

// Bytes returns the big-endian byte representation of b.
func (b *BigInt) Bytes() []byte {
	return (*big.Int)(b).Bytes()
}

// String returns the decimal representation of b.
func (b *BigInt) String() string {
	return (*big.Int)(b).String()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (b *BigInt) MarshalText() ([]byte, error) {
	return (*big.Int)(b).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (b *BigInt) UnmarshalText(data []byte) error {
	return (*big.Int)(b).UnmarshalText(data)
}

// MarshalCBOR implements the cbor.Marshaler interface.
func (b *BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(b.String())
}

// UnmarshalCBOR implements the cbor.Unmarshaler interface.
func (b *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	if _, ok := (*big.Int)(b).SetString(s, 10); !ok {
		return fmt.Errorf("invalid decimal string: %q", s)
	}
	return nil
}
