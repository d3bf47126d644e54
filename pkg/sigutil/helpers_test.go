package sigutil

import (
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	// Well-known development key (account #0 of the hardhat/anvil mnemonic).
	testPrivateKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress       = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	testPublicKey     = "0x8318535b54105d4a7aae60c08fc45f9687181b4fdfc625bd1a753fa7397fed753547f11ca8696646f2f3acb08e31016afac23e630c5d11f59f61fef57b0d2aa5"

	secondPrivateKeyHex = "1234567890abcdef1234567890abcdef1234567890abcdef1234567890abcdef"
	secondAddress       = "0x1be31a94361a391bbafb2a4ccd704f57dc04d4bb"

	// Signatures by the test key, as stored in the fixtures. helloSig uses the
	// default Vapory prefix; ethereumHelloSig signs the same text under the
	// Ethereum prefix.
	helloSig         = "0x0448b450f2b1dd90c82d4864330dd22e47d0934438dc29a331f8f1f4be9bc46c2a18b4b2c3cd128226b05753361cc866bc9ff951ef9a4e6277008c103e8b95b41b"
	ethereumHelloSig = "0xe32cf451f505232ec3f0b45f02557a533fda06e276409122401c6ca2d685b5db01efcbff91155deca263dc374492c47fe554965353d4390e005f29b4df2732741c"
	typedSig         = "0x637a7a9cdc374ce655b9fd0d1dd6e016ce401ca30e5674a8e6f53c9925a7ff2d0b089636efe0b243d82fbdf45add453fb7fc6a8a198505e76eedfe2c60d2c12b1b"
)

// fixturesDir returns the path to the shared JSON fixtures.
func fixturesDir() string {
	return filepath.Join("..", "..", "fixtures")
}

func fixturePath(name string) string {
	return filepath.Join(fixturesDir(), name)
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := hex.DecodeString(testPrivateKeyHex)
	require.NoError(t, err)
	return key
}

func secondKey(t *testing.T) []byte {
	t.Helper()
	key, err := hex.DecodeString(secondPrivateKeyHex)
	require.NoError(t, err)
	return key
}

// aliceTypedData is the two-field document signed in typed_data.json.
func aliceTypedData() TypedData {
	return TypedData{
		{Type: "string", Name: "message", Value: "Hi, Alice!"},
		{Type: "uint32", Name: "value", Value: 1337},
	}
}
