package sigutil

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// arrayElementWidth is the width every array element is widened to.
const arrayElementWidth = 32

var (
	bareIntType  = regexp.MustCompile(`^(u?int)(\[|$)`)
	bareByteType = regexp.MustCompile(`^byte(\[|$)`)
)

// SoliditySHA3 hashes the packed encoding of values with keccak256.
//
// Args:
//   - types: Solidity type tags, one per value (e.g. "string", "uint32", "int8[]")
//   - values: Values to pack, in the same order as types
//
// Returns:
//   - The 32-byte keccak256 digest of SolidityPack(types, values)
func SoliditySHA3(types []string, values []interface{}) ([]byte, error) {
	packed, err := SolidityPack(types, values)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(packed), nil
}

// SolidityPack concatenates values using the Solidity non-standard packed
// mode: every value is encoded at the width of its declared type with no
// length prefixes, except array elements which are widened to 32 bytes.
// A bool value may be a Go bool or a number equal to 0 or 1; anything else
// is rejected with ErrInvalidTypedData.
func SolidityPack(types []string, values []interface{}) ([]byte, error) {
	if len(types) != len(values) {
		return nil, errors.Wrapf(ErrInvalidTypedData,
			"number of types (%d) does not match number of values (%d)", len(types), len(values))
	}

	var out []byte
	for i, t := range types {
		typ, err := parseSolidityType(t)
		if err != nil {
			return nil, err
		}
		enc, err := packValue(typ, values[i], 0)
		if err != nil {
			return nil, errors.Wrapf(err, "value %d (%s)", i, t)
		}
		out = append(out, enc...)
	}
	return out, nil
}

// parseSolidityType resolves the short aliases (uint, int, byte) and parses
// the tag with the ABI type parser.
func parseSolidityType(t string) (abi.Type, error) {
	canonical := bareIntType.ReplaceAllString(t, "${1}256${2}")
	canonical = bareByteType.ReplaceAllString(canonical, "bytes1${1}")

	typ, err := abi.NewType(canonical, "", nil)
	if err != nil {
		return abi.Type{}, errors.Wrapf(ErrInvalidTypedData, "unsupported type %q: %v", t, err)
	}
	if err := checkIntegerWidths(typ); err != nil {
		return abi.Type{}, errors.Wrapf(ErrInvalidTypedData, "unsupported type %q: %v", t, err)
	}
	return typ, nil
}

func checkIntegerWidths(typ abi.Type) error {
	switch typ.T {
	case abi.SliceTy, abi.ArrayTy:
		return checkIntegerWidths(*typ.Elem)
	case abi.IntTy, abi.UintTy:
		if typ.Size < 8 || typ.Size > 256 || typ.Size%8 != 0 {
			return errors.Errorf("invalid integer width %d", typ.Size)
		}
	}
	return nil
}

// packValue encodes a single value. width overrides the natural width of
// booleans, addresses and integers and is zero outside arrays.
func packValue(typ abi.Type, v interface{}, width int) ([]byte, error) {
	switch typ.T {
	case abi.SliceTy, abi.ArrayTy:
		elems, err := toSlice(v)
		if err != nil {
			return nil, err
		}
		if typ.T == abi.ArrayTy && len(elems) > typ.Size {
			return nil, errors.Wrapf(ErrInvalidTypedData, "%d elements exceed array size %d", len(elems), typ.Size)
		}
		var out []byte
		for i, e := range elems {
			enc, err := packValue(*typ.Elem, e, arrayElementWidth)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			out = append(out, enc...)
		}
		return out, nil

	case abi.StringTy:
		switch s := v.(type) {
		case string:
			return []byte(s), nil
		case []byte:
			return s, nil
		}
		return nil, errors.Wrapf(ErrInvalidTypedData, "expected string, got %T", v)

	case abi.BytesTy:
		return ToBytes(InputOf(v))

	case abi.BoolTy:
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}
		out := make([]byte, widthOr(width, 1))
		if b {
			out[len(out)-1] = 1
		}
		return out, nil

	case abi.AddressTy:
		addr, err := toAddressBytes(v)
		if err != nil {
			return nil, err
		}
		return common.LeftPadBytes(addr, widthOr(width, common.AddressLength)), nil

	case abi.FixedBytesTy:
		b, err := ToBytes(InputOf(v))
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, errors.Wrapf(ErrInvalidTypedData, "%d bytes exceed bytes%d", len(b), typ.Size)
		}
		return common.RightPadBytes(b, typ.Size), nil

	case abi.UintTy:
		x, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		if x.Sign() < 0 || x.BitLen() > typ.Size {
			return nil, errors.Wrapf(ErrInvalidTypedData, "%s does not fit in uint%d", x, typ.Size)
		}
		return x.FillBytes(make([]byte, widthOr(width, typ.Size/8))), nil

	case abi.IntTy:
		x, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		if x.Cmp(limit) >= 0 || x.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, errors.Wrapf(ErrInvalidTypedData, "%s does not fit in int%d", x, typ.Size)
		}
		// Widened array elements are sign-extended, not zero-padded.
		twos, err := ToUnsignedFixedWidth(x, widthOr(width, typ.Size/8))
		if err != nil {
			return nil, errors.Wrap(ErrInvalidTypedData, err.Error())
		}
		return twos, nil
	}

	return nil, errors.Wrapf(ErrInvalidTypedData, "unsupported type %s", typ.String())
}

// toBool accepts a Go bool or a number (or numeric string) equal to 0 or 1.
func toBool(v interface{}) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	x, err := toBigInt(v)
	if err != nil {
		return false, errors.Wrapf(ErrInvalidTypedData, "expected bool, got %T", v)
	}
	switch {
	case x.Sign() == 0:
		return false, nil
	case x.IsInt64() && x.Int64() == 1:
		return true, nil
	}
	return false, errors.Wrapf(ErrInvalidTypedData, "bool must be 0 or 1, got %s", x)
}

func widthOr(width, natural int) int {
	if width > 0 {
		return width
	}
	return natural
}

func toSlice(v interface{}) ([]interface{}, error) {
	if elems, ok := v.([]interface{}); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Wrapf(ErrInvalidTypedData, "expected array, got %T", v)
	}
	elems := make([]interface{}, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, nil
}

func toAddressBytes(v interface{}) ([]byte, error) {
	var b []byte
	switch a := v.(type) {
	case common.Address:
		return a.Bytes(), nil
	case *common.Address:
		if a == nil {
			return nil, errors.Wrap(ErrInvalidTypedData, "nil address")
		}
		return a.Bytes(), nil
	case string:
		decoded, ok := decodeHexText(a)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTypedData, "invalid address %q", a)
		}
		b = decoded
	case []byte:
		b = a
	default:
		return nil, errors.Wrapf(ErrInvalidTypedData, "expected address, got %T", v)
	}
	if len(b) > common.AddressLength {
		return nil, errors.Wrapf(ErrInvalidTypedData, "address is %d bytes", len(b))
	}
	return b, nil
}

// toBigInt parses an integer from the forms produced by Go callers and JSON
// decoding: big integers, machine integers, json.Number, integral floats and
// decimal or 0x-prefixed hex strings.
func toBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case *big.Int:
		if v == nil {
			return nil, errors.Wrap(ErrInvalidTypedData, "nil integer")
		}
		return new(big.Int).Set(v), nil

	case big.Int:
		return new(big.Int).Set(&v), nil

	case string:
		s := strings.TrimSpace(v)
		base := 10
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			s, base = s[2:], 16
		}
		z, ok := new(big.Int).SetString(s, base)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTypedData, "invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		z, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidTypedData, "invalid number format: %s", v)
		}
		return z, nil

	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, errors.Wrapf(ErrInvalidTypedData, "invalid number format: %v", v)
		}
		z, _ := big.NewFloat(v).Int(nil)
		return z, nil

	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil

	default:
		return nil, errors.Wrapf(ErrInvalidTypedData, "unsupported number type: %T", val)
	}
}
