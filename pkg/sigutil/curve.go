package sigutil

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 private key.
	PrivateKeyLength = 32

	// PublicKeyLength is the size of an uncompressed public key without the 0x04 marker.
	PublicKeyLength = 64
)

// compactSigMagicOffset is added to the recovery code in compact signatures.
const compactSigMagicOffset = 27

// Curve signs digests and recovers public keys from signatures.
// Implementations must be safe for concurrent use.
type Curve interface {
	// Sign signs a 32-byte digest. R and S are returned in signed
	// two's-complement form; use ConcatSig to serialize them.
	Sign(digest, privateKey []byte) (SignatureComponents, error)

	// Recover returns the 64-byte public key that produced sig over digest.
	// Failures wrap ErrRecoveryFailed.
	Recover(digest []byte, sig SignatureComponents) ([]byte, error)
}

var _ Curve = (*Secp256k1Curve)(nil)

// Secp256k1Curve implements Curve with deterministic RFC 6979 secp256k1 signatures.
type Secp256k1Curve struct{}

// NewSecp256k1Curve creates a secp256k1 curve.
func NewSecp256k1Curve() *Secp256k1Curve {
	return &Secp256k1Curve{}
}

// Sign implements Curve.
func (c *Secp256k1Curve) Sign(digest, privateKey []byte) (SignatureComponents, error) {
	if len(digest) != DigestLength {
		return SignatureComponents{}, errors.Errorf("digest must be %d bytes, got %d", DigestLength, len(digest))
	}
	key, err := parsePrivateKey(privateKey)
	if err != nil {
		return SignatureComponents{}, err
	}
	defer key.Zero()

	// Compact format: [27 + recovery code] || R || S
	compact := ecdsa.SignCompact(key, digest, false)

	return SignatureComponents{
		V: compact[0],
		R: FromSigned(compact[1:33]),
		S: FromSigned(compact[33:65]),
	}, nil
}

// Recover implements Curve.
//
// Args:
//   - digest: 32-byte message digest that was signed
//   - sig: Signature components with V equal to 27 or 28
//
// Returns:
//   - Uncompressed public key without the 0x04 prefix (64 bytes), error otherwise
func (c *Secp256k1Curve) Recover(digest []byte, sig SignatureComponents) ([]byte, error) {
	if len(digest) != DigestLength {
		return nil, errors.Wrapf(ErrRecoveryFailed, "digest must be %d bytes, got %d", DigestLength, len(digest))
	}
	if sig.V != compactSigMagicOffset && sig.V != compactSigMagicOffset+1 {
		return nil, errors.Wrapf(ErrRecoveryFailed, "invalid signature v value %d", sig.V)
	}

	rBytes, err := ToUnsignedFixedWidth(sig.R, scalarLength)
	if err != nil {
		return nil, errors.Wrapf(ErrRecoveryFailed, "r: %v", err)
	}
	sBytes, err := ToUnsignedFixedWidth(sig.S, scalarLength)
	if err != nil {
		return nil, errors.Wrapf(ErrRecoveryFailed, "s: %v", err)
	}

	compact := make([]byte, 0, SignatureLength)
	compact = append(compact, sig.V)
	compact = append(compact, rBytes...)
	compact = append(compact, sBytes...)

	pub, _, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, errors.Wrapf(ErrRecoveryFailed, "%v", err)
	}
	return pub.SerializeUncompressed()[1:], nil
}

// parsePrivateKey rejects keys that are not 32 bytes or fall outside [1, N).
func parsePrivateKey(privateKey []byte) (*secp256k1.PrivateKey, error) {
	if len(privateKey) != PrivateKeyLength {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "expected %d bytes, got %d", PrivateKeyLength, len(privateKey))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(privateKey); overflow {
		scalar.Zero()
		return nil, errors.Wrap(ErrInvalidPrivateKey, "key is not below the curve order")
	}
	if scalar.IsZero() {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "key is zero")
	}
	key := secp256k1.NewPrivateKey(&scalar)
	scalar.Zero()
	return key, nil
}

// PublicKeyOf returns the 64-byte public key for a private key.
func PublicKeyOf(privateKey []byte) ([]byte, error) {
	key, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	defer key.Zero()
	return key.PubKey().SerializeUncompressed()[1:], nil
}

// DeriveAddress returns the last 20 bytes of keccak256(publicKey). A 65-byte
// key carrying the 0x04 marker is accepted as well.
func DeriveAddress(publicKey []byte) (common.Address, error) {
	if len(publicKey) == PublicKeyLength+1 && publicKey[0] == 0x04 {
		publicKey = publicKey[1:]
	}
	if len(publicKey) != PublicKeyLength {
		return common.Address{}, errors.Wrapf(ErrInvalidPublicKey, "expected %d bytes, got %d", PublicKeyLength, len(publicKey))
	}
	return common.BytesToAddress(crypto.Keccak256(publicKey)[12:]), nil
}
