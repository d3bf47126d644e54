package sigutil

import "github.com/pkg/errors"

// Errors returned by the package. Callers match them with errors.Is; the
// returned errors usually wrap one of these with extra context.
var (
	// ErrInvalidInputKind is returned when a value is not an integer, a string or bytes.
	ErrInvalidInputKind = errors.New("invalid input kind")

	// ErrInvalidTypedData is returned for an empty typed-data list, a field
	// without a name, or a value that cannot be encoded as its declared type.
	ErrInvalidTypedData = errors.New("invalid typed data")

	// ErrMalformedSignature is returned when a serialized signature is not 65 bytes of hex.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrRecoveryFailed is returned when no public key can be recovered from a signature.
	ErrRecoveryFailed = errors.New("signature recovery failed")

	// ErrInvalidPrivateKey is returned when a private key is not a 32-byte scalar in [1, n-1].
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey is returned when a public key is not 64 bytes, or 65 with the 0x04 prefix.
	ErrInvalidPublicKey = errors.New("invalid public key")
)
