package sigutil

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// InputKind tags the variant held by an Input.
type InputKind int

const (
	KindAbsent InputKind = iota
	KindInteger
	KindText
	KindBytes
	KindInvalid
)

func (k InputKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindInteger:
		return "integer"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	default:
		return "invalid"
	}
}

// Input is a value accepted at the package boundary: nothing, an integer, a
// string or raw bytes. Anything else is carried as KindInvalid so the error
// can be reported where the value is used. The zero Input is absent.
type Input struct {
	kind    InputKind
	integer *big.Int
	text    string
	raw     []byte
	other   interface{}
}

// Absent returns an Input holding no value.
func Absent() Input { return Input{} }

// Integer wraps an integer. A nil pointer is treated as absent.
func Integer(n *big.Int) Input {
	if n == nil {
		return Input{}
	}
	return Input{kind: KindInteger, integer: new(big.Int).Set(n)}
}

// Uint64 wraps a uint64 as an integer Input.
func Uint64(n uint64) Input {
	return Integer(new(big.Int).SetUint64(n))
}

// Text wraps a string.
func Text(s string) Input { return Input{kind: KindText, text: s} }

// Bytes wraps a byte slice. The slice is copied.
func Bytes(b []byte) Input {
	return Input{kind: KindBytes, raw: append([]byte{}, b...)}
}

// InputOf resolves a dynamically typed value, such as one decoded from JSON,
// into an Input. Unsupported values produce a KindInvalid Input.
func InputOf(v interface{}) Input {
	switch t := v.(type) {
	case nil:
		return Absent()
	case Input:
		return t
	case *big.Int:
		return Integer(t)
	case big.Int:
		return Integer(&t)
	case int:
		return Integer(big.NewInt(int64(t)))
	case int8:
		return Integer(big.NewInt(int64(t)))
	case int16:
		return Integer(big.NewInt(int64(t)))
	case int32:
		return Integer(big.NewInt(int64(t)))
	case int64:
		return Integer(big.NewInt(t))
	case uint:
		return Uint64(uint64(t))
	case uint8:
		return Uint64(uint64(t))
	case uint16:
		return Uint64(uint64(t))
	case uint32:
		return Uint64(uint64(t))
	case uint64:
		return Uint64(t)
	case json.Number:
		n, ok := new(big.Int).SetString(string(t), 10)
		if !ok {
			return Input{kind: KindInvalid, other: v}
		}
		return Integer(n)
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) {
			return Input{kind: KindInvalid, other: v}
		}
		n, _ := big.NewFloat(t).Int(nil)
		return Integer(n)
	case string:
		return Text(t)
	case []byte:
		return Bytes(t)
	default:
		return Input{kind: KindInvalid, other: v}
	}
}

// Kind reports which variant the Input holds.
func (in Input) Kind() InputKind { return in.kind }

func (in Input) invalidError() error {
	return errors.Wrapf(ErrInvalidInputKind,
		"expected hex string, integer or bytes, received %T: %v", in.other, in.other)
}

// Normalize converts an Input to lower-case 0x-prefixed hex. Integers are
// encoded as their minimal big-endian bytes, so zero becomes "0x00". The
// boolean result is false when the Input is absent.
//
// Bytes are accepted as well and encoded as-is. This is wider than a
// number-or-string contract: a caller relying on bytes being rejected with
// ErrInvalidInputKind must check the kind first.
func Normalize(in Input) (string, bool, error) {
	switch in.kind {
	case KindAbsent:
		return "", false, nil
	case KindInteger:
		if in.integer.Sign() < 0 {
			return "", false, errors.Wrapf(ErrInvalidInputKind, "negative integer %s", in.integer)
		}
		return hexutil.Encode(integerBytes(in.integer)), true, nil
	case KindText:
		s := strings.ToLower(in.text)
		if !strings.HasPrefix(s, "0x") {
			s = "0x" + s
		}
		return s, true, nil
	case KindBytes:
		return hexutil.Encode(in.raw), true, nil
	default:
		return "", false, in.invalidError()
	}
}

// ToBytes converts an Input to the bytes that get hashed. 0x-prefixed hex
// text is decoded, any other text is taken as UTF-8, integers become their
// minimal big-endian bytes and an absent Input yields an empty slice.
func ToBytes(in Input) ([]byte, error) {
	switch in.kind {
	case KindAbsent:
		return []byte{}, nil
	case KindInteger:
		if in.integer.Sign() < 0 {
			return nil, errors.Wrapf(ErrInvalidInputKind, "negative integer %s", in.integer)
		}
		return integerBytes(in.integer), nil
	case KindText:
		if b, ok := decodeHexText(in.text); ok {
			return b, nil
		}
		return []byte(in.text), nil
	case KindBytes:
		return append([]byte{}, in.raw...), nil
	default:
		return nil, in.invalidError()
	}
}

// integerBytes returns the minimal big-endian form of a non-negative integer,
// with zero encoded as a single zero byte.
func integerBytes(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	return n.Bytes()
}

// decodeHexText decodes 0x-prefixed hex, padding an odd-length body with a
// leading zero nibble.
func decodeHexText(s string) ([]byte, bool) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, false
	}
	body := s[2:]
	if len(body)%2 == 1 {
		body = "0" + body
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		return nil, false
	}
	return b, true
}

// PadLeftZeroes left-pads text with '0' until it is at least length
// characters long. It never truncates.
func PadLeftZeroes(text string, length int) string {
	if len(text) >= length {
		return text
	}
	return strings.Repeat("0", length-len(text)) + text
}

// ToUnsignedFixedWidth returns x as exactly width big-endian bytes. Negative
// values are first wrapped to their two's-complement form modulo 2^(8*width),
// which is how the curve's signed output is turned back into r and s.
//
// Args:
//   - x: Integer to encode, in [-2^(8*width-1), 2^(8*width))
//   - width: Output length in bytes
//
// Returns:
//   - width bytes of big-endian two's complement, error if x does not fit
func ToUnsignedFixedWidth(x *big.Int, width int) ([]byte, error) {
	if x == nil {
		return nil, errors.New("nil integer")
	}
	bits := uint(8 * width)
	u := new(big.Int).Set(x)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), bits))
		if u.Sign() < 0 {
			return nil, errors.Errorf("integer %s does not fit in %d bytes", x, width)
		}
	}
	if u.BitLen() > int(bits) {
		return nil, errors.Errorf("integer %s does not fit in %d bytes", x, width)
	}
	return u.FillBytes(make([]byte, width)), nil
}

// FromSigned interprets b as a big-endian two's-complement integer.
//
// Args:
//   - b: Big-endian bytes; the top bit of b[0] is the sign
//
// Returns:
//   - The signed value, zero for an empty slice
func FromSigned(b []byte) *big.Int {
	x := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return x
}
