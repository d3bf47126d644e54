package sigutil

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

const (
	// SignatureLength is the size of a serialized signature: r (32) || s (32) || v (1).
	SignatureLength = 65

	scalarLength = 32
)

// SignatureComponents represents an ECDSA signature split into its parts.
type SignatureComponents struct {
	V byte     // Recovery id, 27 or 28
	R *big.Int // r component of the signature
	S *big.Int // s component of the signature
}

// ConcatSig serializes a signature as 0x-prefixed hex of r || s || v.
//
// r and s may be given in the signed form produced by the curve; they are
// wrapped to unsigned and left padded to 32 bytes. v is always written as a
// single byte, so the result is always 132 characters long.
func ConcatSig(v byte, r, s *big.Int) (string, error) {
	b, err := concatSigBytes(v, r, s)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(b), nil
}

func concatSigBytes(v byte, r, s *big.Int) ([]byte, error) {
	rBytes, err := ToUnsignedFixedWidth(r, scalarLength)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSignature, "r: %v", err)
	}
	sBytes, err := ToUnsignedFixedWidth(s, scalarLength)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSignature, "s: %v", err)
	}

	out := make([]byte, 0, SignatureLength)
	out = append(out, rBytes...)
	out = append(out, sBytes...)
	return append(out, v), nil
}

// Bytes returns the 65-byte r || s || v form of the signature.
func (c SignatureComponents) Bytes() ([]byte, error) {
	return concatSigBytes(c.V, c.R, c.S)
}

// Serialize returns the hex form of the signature, see ConcatSig.
func (c SignatureComponents) Serialize() (string, error) {
	return ConcatSig(c.V, c.R, c.S)
}

// ParseSignature decodes a hex signature (0x prefix optional) into its
// components. A v below 27 is lifted by 27 so that both the 0/1 and the
// 27/28 conventions are accepted.
func ParseSignature(sig string) (SignatureComponents, error) {
	if !strings.HasPrefix(sig, "0x") && !strings.HasPrefix(sig, "0X") {
		sig = "0x" + sig
	}
	b, err := hexutil.Decode(sig)
	if err != nil {
		return SignatureComponents{}, errors.Wrapf(ErrMalformedSignature, "invalid hex: %v", err)
	}
	return ParseSignatureBytes(b)
}

// ParseSignatureBytes splits a 65-byte r || s || v signature.
func ParseSignatureBytes(b []byte) (SignatureComponents, error) {
	if len(b) != SignatureLength {
		return SignatureComponents{}, errors.Wrapf(ErrMalformedSignature,
			"expected %d bytes, got %d", SignatureLength, len(b))
	}

	v := b[64]
	if v < 27 {
		v += 27
	}
	return SignatureComponents{
		V: v,
		R: new(big.Int).SetBytes(b[:32]),
		S: new(big.Int).SetBytes(b[32:64]),
	}, nil
}
