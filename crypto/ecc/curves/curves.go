// Package curves is the registry of the supported elliptic curve
// implementations, addressed by type string.
package curves

import (
	"fmt"

	"github.com/vocdoni/confidential-survey/crypto/ecc"
	"github.com/vocdoni/confidential-survey/crypto/ecc/bjj"
	"github.com/vocdoni/confidential-survey/crypto/ecc/bn254"
)

const (
	// CurveTypeBN254 selects the BN254 G1 group (gnark-crypto).
	CurveTypeBN254 = bn254.CurveType
	// CurveTypeBabyJubJub selects the BabyJubJub curve (iden3).
	CurveTypeBabyJubJub = bjj.CurveType
)

// New creates a point on the curve identified by curveType. It panics on an
// unknown type, since curve selection is a static configuration decision.
func New(curveType string) ecc.Point {
	switch curveType {
	case CurveTypeBN254:
		return bn254.New()
	case CurveTypeBabyJubJub:
		return bjj.New()
	default:
		panic(fmt.Sprintf("unsupported curve type: %s", curveType))
	}
}

// Curves returns the list of supported curve type identifiers.
func Curves() []string {
	return []string{CurveTypeBN254, CurveTypeBabyJubJub}
}
