package ecc

import "math/big"

// Point is the abstraction over an elliptic curve group element used by the
// homomorphic encryption layer. Implementations wrap a concrete curve library
// and expose the group operations the ElGamal scheme needs.
type Point interface {
	// New returns a fresh point on the same curve as the receiver.
	New() Point

	// Order returns the order of the curve group.
	Order() *big.Int

	// Add sets the receiver to a+b.
	Add(a, b Point)

	// SafeAdd sets the receiver to a+b holding an internal lock, so that the
	// receiver can be shared across goroutines.
	SafeAdd(a, b Point)

	// ScalarMult sets the receiver to scalar*a.
	ScalarMult(a Point, scalar *big.Int)

	// ScalarBaseMult sets the receiver to scalar*G, with G the group generator.
	ScalarBaseMult(scalar *big.Int)

	// Marshal serializes the point into a byte slice.
	Marshal() []byte

	// Unmarshal deserializes a byte slice produced by Marshal.
	Unmarshal(buf []byte) error

	// Equal reports whether the receiver and a represent the same point.
	Equal(a Point) bool

	// Neg sets the receiver to -a.
	Neg(a Point)

	// SetZero sets the receiver to the identity element.
	SetZero()

	// Set copies a into the receiver.
	Set(a Point)

	// SetGenerator sets the receiver to the group generator.
	SetGenerator()

	// String returns a human readable representation of the point.
	String() string

	// Point returns the affine coordinates of the point.
	Point() (*big.Int, *big.Int)

	// SetPoint returns a point with the given affine coordinates.
	SetPoint(x, y *big.Int) Point

	// Type returns the curve type identifier.
	Type() string
}
