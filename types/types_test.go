package types

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/fxamacker/cbor/v2"
)

func TestHexBytesJSON(t *testing.T) {
	c := qt.New(t)

	b := HexBytes{0xde, 0xad, 0xbe, 0xef}
	data, err := json.Marshal(b)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, `"deadbeef"`)

	var decoded HexBytes
	c.Assert(json.Unmarshal(data, &decoded), qt.IsNil)
	c.Assert([]byte(decoded), qt.DeepEquals, []byte(b))

	// The 0x prefix is accepted on input.
	c.Assert(json.Unmarshal([]byte(`"0xdeadbeef"`), &decoded), qt.IsNil)
	c.Assert([]byte(decoded), qt.DeepEquals, []byte(b))

	c.Assert(json.Unmarshal([]byte(`"zz"`), &decoded), qt.Not(qt.IsNil))
	c.Assert(json.Unmarshal([]byte(`42`), &decoded), qt.Not(qt.IsNil))
}

func TestHexBytesFromString(t *testing.T) {
	c := qt.New(t)

	var b HexBytes
	c.Assert(b.FromString("0xcafe"), qt.IsNil)
	c.Assert(b.String(), qt.Equals, "cafe")
	c.Assert(b.FromString("cafe"), qt.IsNil)
	c.Assert(b.String(), qt.Equals, "cafe")
}

func TestBigIntCBOR(t *testing.T) {
	c := qt.New(t)

	b := new(BigInt).SetUint64(18446744073709551615)
	data, err := cbor.Marshal(b)
	c.Assert(err, qt.IsNil)

	decoded := new(BigInt)
	c.Assert(cbor.Unmarshal(data, decoded), qt.IsNil)
	c.Assert(decoded.String(), qt.Equals, "18446744073709551615")
}

func TestViewerRole(t *testing.T) {
	c := qt.New(t)

	c.Assert(RoleNone.Valid(), qt.IsFalse)
	c.Assert(RoleBasic.Valid(), qt.IsTrue)
	c.Assert(RoleAnalyst.Valid(), qt.IsTrue)
	c.Assert(RoleAdmin.Valid(), qt.IsTrue)
	c.Assert(ViewerRole(9).Valid(), qt.IsFalse)

	c.Assert(RoleBasic.String(), qt.Equals, "basic")
	c.Assert(RoleAnalyst.String(), qt.Equals, "analyst")
	c.Assert(RoleAdmin.String(), qt.Equals, "admin")
	c.Assert(RoleNone.String(), qt.Equals, "none")
}
