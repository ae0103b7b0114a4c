// internal/nodeid/address_test.go
package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	testCases := []struct {
		name        string
		addr        *Address
		expectedStr string
	}{
		{
			name:        "single segment",
			addr:        &Address{Path: []PathSegment{NewPathSegment("12")}},
			expectedStr: "12",
		},
		{
			name: "nested path",
			addr: &Address{
				Path: []PathSegment{NewPathSegment("3"), NewPathSegment("0"), NewPathSegment("Recurse")},
			},
			expectedStr: "3.0.Recurse",
		},
		{
			name:        "nil address",
			addr:        nil,
			expectedStr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.addr.String())
		})
	}
}

func TestAddress_RoundTrip(t *testing.T) {
	for _, id := range []string{"7", "3.0.7", "3.0.Recurse.1.4"} {
		t.Run(id, func(t *testing.T) {
			addr, err := Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, addr.String())

			again, err := Parse(addr.String())
			require.NoError(t, err)
			assert.True(t, addr.Equal(again))
		})
	}
}

func TestAddress_Equal(t *testing.T) {
	a := MustParse("3.0.7")
	assert.True(t, a.Equal(MustParse("3.0.7")))
	assert.False(t, a.Equal(MustParse("3.0.8")))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Address)(nil).Equal(nil))
}

func TestAddress_LastAndPrefix(t *testing.T) {
	a := MustParse("3.0.Recurse")
	assert.Equal(t, "Recurse", a.Last())
	assert.Equal(t, "3.0", a.Prefix())
	assert.True(t, a.IsNested())

	flat := MustParse("9")
	assert.Equal(t, "9", flat.Last())
	assert.Equal(t, "", flat.Prefix())
	assert.False(t, flat.IsNested())
}

func TestReplaceLast_PreservesNestingPrefix(t *testing.T) {
	assert.Equal(t, "3.0.4", ReplaceLast("3.0.2", "4"))
	assert.Equal(t, "4", ReplaceLast("2", "4"))
	// the original address is not modified
	a := MustParse("5.1.2")
	_ = a.WithLast("9")
	assert.Equal(t, "5.1.2", a.String())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "3.0.7", Join("3.0.", "7"))
	assert.Equal(t, "3.0.7", Join("3.0", "7"))
	assert.Equal(t, "7", Join("", "7"))
}
