package sigutil

import (
	"runtime"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MsgParams carries a personal message and, for recovery, its signature.
type MsgParams struct {
	Data Input
	Sig  string
}

// TypedMsgParams carries a typed-data document and, for recovery, its signature.
type TypedMsgParams struct {
	Data TypedData
	Sig  string
}

// Client signs and recovers personal messages and typed data.
type Client struct {
	curve   Curve
	logger  *zap.Logger
	prefix  string
	workers int
}

// NewClient creates a new client with default settings: secp256k1, no
// logging, the Vapory message prefix and one batch worker per CPU.
func NewClient() *Client {
	return &Client{
		curve:   NewSecp256k1Curve(),
		logger:  zap.NewNop(),
		prefix:  VaporyMessagePrefix,
		workers: runtime.NumCPU(),
	}
}

// WithCurve sets the signing curve.
func (c *Client) WithCurve(curve Curve) *Client {
	c.curve = curve
	return c
}

// WithLogger sets the logger. Only successful operations are logged, at debug level.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
	return c
}

// WithMessagePrefix sets the personal message prefix.
func (c *Client) WithMessagePrefix(prefix string) *Client {
	c.prefix = prefix
	return c
}

// WithWorkers sets the number of concurrent workers used by RecoverBatch
// (0 = one per CPU).
func (c *Client) WithWorkers(n int) *Client {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	c.workers = n
	return c
}

// PersonalMessageHash hashes data with the client's message prefix.
func (c *Client) PersonalMessageHash(data Input) ([]byte, error) {
	message, err := ToBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read message")
	}
	return PersonalMessageHash(c.prefix, message), nil
}

// PersonalSign signs a personal message and returns the serialized signature.
func (c *Client) PersonalSign(privateKey []byte, params MsgParams) (string, error) {
	hash, err := c.PersonalMessageHash(params.Data)
	if err != nil {
		return "", err
	}
	sig, err := c.sign(hash, privateKey)
	if err != nil {
		return "", err
	}
	c.logger.Debug("signed personal message", zap.String("digest", hexutil.Encode(hash)))
	return sig, nil
}

// RecoverPersonalSignature returns the lower-case hex address that signed params.Data.
func (c *Client) RecoverPersonalSignature(params MsgParams) (string, error) {
	publicKey, err := c.personalPublicKey(params)
	if err != nil {
		return "", err
	}
	return c.addressHex(publicKey, "recovered personal message signer")
}

// ExtractPublicKey returns the 0x-prefixed 64-byte public key that signed params.Data.
func (c *Client) ExtractPublicKey(params MsgParams) (string, error) {
	publicKey, err := c.personalPublicKey(params)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(publicKey), nil
}

// TypedSignatureHash returns the hex digest of a typed-data document.
func (c *Client) TypedSignatureHash(td TypedData) (string, error) {
	hash, err := TypedSignatureHash(td)
	if err != nil {
		return "", err
	}
	return hexutil.Encode(hash), nil
}

// SignTypedData signs a typed-data document and returns the serialized signature.
func (c *Client) SignTypedData(privateKey []byte, params TypedMsgParams) (string, error) {
	hash, err := TypedSignatureHash(params.Data)
	if err != nil {
		return "", err
	}
	sig, err := c.sign(hash, privateKey)
	if err != nil {
		return "", err
	}
	c.logger.Debug("signed typed data",
		zap.Int("fields", len(params.Data)),
		zap.String("digest", hexutil.Encode(hash)))
	return sig, nil
}

// RecoverTypedSignature returns the lower-case hex address that signed params.Data.
func (c *Client) RecoverTypedSignature(params TypedMsgParams) (string, error) {
	hash, err := TypedSignatureHash(params.Data)
	if err != nil {
		return "", err
	}
	publicKey, err := c.recoverPublicKey(hash, params.Sig)
	if err != nil {
		return "", err
	}
	return c.addressHex(publicKey, "recovered typed data signer")
}

func (c *Client) sign(hash, privateKey []byte) (string, error) {
	sig, err := c.curve.Sign(hash, privateKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign digest")
	}
	return ConcatSig(sig.V, sig.R, sig.S)
}

func (c *Client) personalPublicKey(params MsgParams) ([]byte, error) {
	hash, err := c.PersonalMessageHash(params.Data)
	if err != nil {
		return nil, err
	}
	return c.recoverPublicKey(hash, params.Sig)
}

func (c *Client) recoverPublicKey(hash []byte, sig string) ([]byte, error) {
	components, err := ParseSignature(sig)
	if err != nil {
		return nil, err
	}
	return c.curve.Recover(hash, components)
}

func (c *Client) addressHex(publicKey []byte, msg string) (string, error) {
	addr, err := DeriveAddress(publicKey)
	if err != nil {
		return "", err
	}
	signer := addressToHex(addr)
	c.logger.Debug(msg, zap.String("signer", signer))
	return signer, nil
}

func addressToHex(addr common.Address) string {
	return hexutil.Encode(addr.Bytes())
}

// PersonalSign signs a personal message with the default client.
func PersonalSign(privateKey []byte, params MsgParams) (string, error) {
	return NewClient().PersonalSign(privateKey, params)
}

// RecoverPersonalSignature recovers a personal message signer with the default client.
func RecoverPersonalSignature(params MsgParams) (string, error) {
	return NewClient().RecoverPersonalSignature(params)
}

// ExtractPublicKey recovers a personal message signer's public key with the default client.
func ExtractPublicKey(params MsgParams) (string, error) {
	return NewClient().ExtractPublicKey(params)
}

// TypedSignatureHashHex returns the hex digest of a typed-data document.
func TypedSignatureHashHex(td TypedData) (string, error) {
	return NewClient().TypedSignatureHash(td)
}

// SignTypedData signs a typed-data document with the default client.
func SignTypedData(privateKey []byte, params TypedMsgParams) (string, error) {
	return NewClient().SignTypedData(privateKey, params)
}

// RecoverTypedSignature recovers a typed-data signer with the default client.
func RecoverTypedSignature(params TypedMsgParams) (string, error) {
	return NewClient().RecoverTypedSignature(params)
}
