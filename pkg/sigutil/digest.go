package sigutil

import (
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// DigestLength is the size of every digest produced by this package.
const DigestLength = 32

// Personal message prefixes. The prefix starts with 0x19 so that a signed
// message can never be a valid RLP-encoded transaction.
const (
	EthereumMessagePrefix = "\x19Ethereum Signed Message:\n"
	VaporyMessagePrefix   = "\x19Vapory Signed Message:\n"
)

// TypedDataField is one named, typed value of a typed-data document.
type TypedDataField struct {
	Type  string      `json:"type" validate:"required"`
	Name  string      `json:"name" validate:"required"`
	Value interface{} `json:"value"`
}

// TypedData is an ordered list of fields. Order is part of the signed
// content: reordering the fields changes the digest.
type TypedData []TypedDataField

// PersonalMessageHash returns keccak256(prefix || decimal(len(message)) || message).
func PersonalMessageHash(prefix string, message []byte) []byte {
	return crypto.Keccak256(
		[]byte(prefix),
		[]byte(strconv.Itoa(len(message))),
		message,
	)
}

// TypedSignatureHash returns the digest of a typed-data document:
//
//	schemaHash = soliditySHA3(["string", ...], ["<type> <name>", ...])
//	valueHash  = soliditySHA3([<type>, ...], [<value>, ...])
//	digest     = soliditySHA3(["bytes32", "bytes32"], [schemaHash, valueHash])
//
// Values declared as "bytes" are converted with ToBytes first, so hex
// strings are signed as the bytes they encode.
func TypedSignatureHash(td TypedData) ([]byte, error) {
	if len(td) == 0 {
		return nil, errors.Wrap(ErrInvalidTypedData, "expected a non-empty list of fields")
	}

	n := len(td)
	types := make([]string, n)
	values := make([]interface{}, n)
	schemaTypes := make([]string, n)
	schema := make([]interface{}, n)

	for i, field := range td {
		if field.Name == "" {
			return nil, errors.Wrapf(ErrInvalidTypedData, "field %d has no name", i)
		}
		if field.Type == "" {
			return nil, errors.Wrapf(ErrInvalidTypedData, "field %d (%s) has no type", i, field.Name)
		}

		value := field.Value
		if field.Type == "bytes" {
			b, err := ToBytes(InputOf(value))
			if err != nil {
				return nil, errors.Wrapf(err, "field %d (%s)", i, field.Name)
			}
			value = b
		}

		types[i] = field.Type
		values[i] = value
		schemaTypes[i] = "string"
		schema[i] = field.Type + " " + field.Name
	}

	schemaHash, err := SoliditySHA3(schemaTypes, schema)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash schema")
	}
	valueHash, err := SoliditySHA3(types, values)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash values")
	}

	return SoliditySHA3(
		[]string{"bytes32", "bytes32"},
		[]interface{}{schemaHash, valueHash},
	)
}
