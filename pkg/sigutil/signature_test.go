package sigutil

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatSig(t *testing.T) {
	one := big.NewInt(1)
	got, err := ConcatSig(27, one, big.NewInt(2))
	require.NoError(t, err)

	want := "0x" + strings.Repeat("0", 63) + "1" + strings.Repeat("0", 63) + "2" + "1b"
	assert.Equal(t, want, got)
}

func TestConcatSig_FixedWidth(t *testing.T) {
	for _, v := range []byte{0, 1, 15, 27, 28, 255} {
		got, err := ConcatSig(v, big.NewInt(1), big.NewInt(1))
		require.NoError(t, err)
		assert.Len(t, got, 2+2*SignatureLength, "v=%d", v)
	}
}

func TestConcatSig_SignedComponents(t *testing.T) {
	got, err := ConcatSig(28, big.NewInt(-1), big.NewInt(-2))
	require.NoError(t, err)

	want := "0x" + strings.Repeat("ff", 32) + strings.Repeat("ff", 31) + "fe" + "1c"
	assert.Equal(t, want, got)
}

func TestConcatSig_Overflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err := ConcatSig(27, tooBig, big.NewInt(1))
	require.ErrorIs(t, err, ErrMalformedSignature)

	_, err = ConcatSig(27, big.NewInt(1), nil)
	require.ErrorIs(t, err, ErrMalformedSignature)
}

func TestParseSignature(t *testing.T) {
	sig, err := ParseSignature(helloSig)
	require.NoError(t, err)
	assert.Equal(t, byte(27), sig.V)

	again, err := sig.Serialize()
	require.NoError(t, err)
	assert.Equal(t, helloSig, again)

	raw, err := sig.Bytes()
	require.NoError(t, err)
	assert.Len(t, raw, SignatureLength)
}

func TestParseSignature_RoundTrip(t *testing.T) {
	r, _ := new(big.Int).SetString("e32cf451f505232ec3f0b45f02557a533fda06e276409122401c6ca2d685b5db", 16)
	s := big.NewInt(7)

	for _, v := range []byte{27, 28} {
		encoded, err := ConcatSig(v, r, s)
		require.NoError(t, err)

		sig, err := ParseSignature(encoded)
		require.NoError(t, err)
		assert.Equal(t, v, sig.V)
		assert.Equal(t, 0, r.Cmp(sig.R))
		assert.Equal(t, 0, s.Cmp(sig.S))
	}
}

func TestParseSignature_Forms(t *testing.T) {
	withoutPrefix, err := ParseSignature(helloSig[2:])
	require.NoError(t, err)
	upper, err := ParseSignature("0X" + strings.ToUpper(helloSig[2:]))
	require.NoError(t, err)
	canonical, err := ParseSignature(helloSig)
	require.NoError(t, err)

	assert.Equal(t, canonical, withoutPrefix)
	assert.Equal(t, canonical, upper)
}

func TestParseSignature_LiftsLowV(t *testing.T) {
	body := helloSig[:len(helloSig)-2]

	zero, err := ParseSignature(body + "00")
	require.NoError(t, err)
	assert.Equal(t, byte(27), zero.V)

	one, err := ParseSignature(body + "01")
	require.NoError(t, err)
	assert.Equal(t, byte(28), one.V)
}

func TestParseSignature_Malformed(t *testing.T) {
	tests := []struct {
		name string
		sig  string
	}{
		{"empty", ""},
		{"prefix only", "0x"},
		{"short", helloSig[:len(helloSig)-2]},
		{"long", helloSig + "00"},
		{"odd length", helloSig + "0"},
		{"not hex", "0x" + strings.Repeat("zz", SignatureLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignature(tt.sig)
			require.ErrorIs(t, err, ErrMalformedSignature)
		})
	}
}
