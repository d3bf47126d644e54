package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKeyHex = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress       = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	helloSig          = "0x0448b450f2b1dd90c82d4864330dd22e47d0934438dc29a331f8f1f4be9bc46c2a18b4b2c3cd128226b05753361cc866bc9ff951ef9a4e6277008c103e8b95b41b"
)

func fixture(name string) string {
	return filepath.Join("..", "..", "fixtures", name)
}

// runCLI runs one command without reading a .env file and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if len(args) > 0 {
		args = append([]string{args[0], "-env", ""}, args[1:]...)
	}
	err := run(context.Background(), args, &stdout, &stderr)
	return strings.TrimSpace(stdout.String()), err
}

func TestPersonalSignAndRecover(t *testing.T) {
	t.Setenv("SIGUTIL_PRIVATE_KEY", testPrivateKeyHex)

	sig, err := runCLI(t, "personal-sign", "-data", "Hello")
	require.NoError(t, err)
	assert.Equal(t, helloSig, sig)

	signer, err := runCLI(t, "personal-recover", "-data", "Hello", "-sig", sig)
	require.NoError(t, err)
	assert.Equal(t, testAddress, signer)

	signer, err = runCLI(t, "personal-recover", "-file", fixture("message.json"))
	require.NoError(t, err)
	assert.Equal(t, testAddress, signer)
}

func TestPersonalSign_EthereumPrefix(t *testing.T) {
	t.Setenv("SIGUTIL_PRIVATE_KEY", testPrivateKeyHex)
	t.Setenv("SIGUTIL_MESSAGE_PREFIX", "ethereum")

	sig, err := runCLI(t, "personal-sign", "-data", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "0xe32cf451f505232ec3f0b45f02557a533fda06e276409122401c6ca2d685b5db01efcbff91155deca263dc374492c47fe554965353d4390e005f29b4df2732741c", sig)
	assert.NotEqual(t, helloSig, sig)
}

func TestPersonalSign_RequiresKey(t *testing.T) {
	t.Setenv("SIGUTIL_PRIVATE_KEY", "")

	_, err := runCLI(t, "personal-sign", "-data", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SIGUTIL_PRIVATE_KEY")
}

func TestExtractPublicKey(t *testing.T) {
	pub, err := runCLI(t, "extract-pubkey", "-file", fixture("message.json"))
	require.NoError(t, err)
	assert.Equal(t, "0x8318535b54105d4a7aae60c08fc45f9687181b4fdfc625bd1a753fa7397fed753547f11ca8696646f2f3acb08e31016afac23e630c5d11f59f61fef57b0d2aa5", pub)
}

func TestTypedCommands(t *testing.T) {
	t.Setenv("SIGUTIL_PRIVATE_KEY", testPrivateKeyHex)

	hash, err := runCLI(t, "typed-hash", "-file", fixture("typed_fields.json"))
	require.NoError(t, err)
	assert.Equal(t, "0x001433f74b5d5ddc89c00ee75b6ce75dc3278be803c3ee0941a6b81b62f1dbf0", hash)

	sig, err := runCLI(t, "typed-sign", "-file", fixture("typed_fields.json"))
	require.NoError(t, err)

	signer, err := runCLI(t, "typed-recover", "-file", fixture("typed_fields.json"), "-sig", sig)
	require.NoError(t, err)
	assert.Equal(t, testAddress, signer)

	signer, err = runCLI(t, "typed-recover", "-file", fixture("typed_data.json"))
	require.NoError(t, err)
	assert.Equal(t, testAddress, signer)

	_, err = runCLI(t, "typed-hash")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"normalize", "-integer", "255"}, "0xff"},
		{[]string{"normalize", "-integer", "0"}, "0x00"},
		{[]string{"normalize", "ABC"}, "0xabc"},
		{[]string{"normalize"}, "(absent)"},
	}

	for _, tt := range tests {
		got, err := runCLI(t, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.want, got, tt.args)
	}

	_, err := runCLI(t, "normalize", "-integer", "-5")
	assert.Error(t, err)

	_, err = runCLI(t, "normalize", "-integer", "ten")
	assert.Error(t, err)
}

func TestBatchRecover(t *testing.T) {
	out, err := runCLI(t, "batch-recover", "-file", fixture("batch.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 requests failed")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "0\t"+testAddress, lines[0])
	assert.Equal(t, "1\t"+testAddress, lines[1])
	assert.Equal(t, "2\t0x1be31a94361a391bbafb2a4ccd704f57dc04d4bb", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "3\terror:"))
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "batch-recover")
	assert.Contains(t, stderr.String(), "SIGUTIL_LOG_LEVEL")

	stderr.Reset()
	err := run(context.Background(), []string{"sign-everything"}, &stdout, &stderr)
	assert.Error(t, err)

	require.NoError(t, run(context.Background(), []string{"normalize", "-h"}, &stdout, &stderr))
}
