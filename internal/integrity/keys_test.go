package integrity_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaiti/eai-security-check-sub001/internal/integrity"
)

func TestLoadKeyFromEnv(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}
	t.Setenv(integrity.KeyEnvVar, hex.EncodeToString(raw))

	key, err := integrity.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

func TestLoadKeyRejectsMalformedEnv(t *testing.T) {
	t.Setenv(integrity.KeyEnvVar, "not-hex")
	_, err := integrity.LoadKey()
	assert.Error(t, err)

	t.Setenv(integrity.KeyEnvVar, "abcd") // valid hex, wrong size
	_, err = integrity.LoadKey()
	assert.Error(t, err)
}

func TestLoadKeyFromFile(t *testing.T) {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(255 - i)
	}
	path := filepath.Join(t.TempDir(), "hmac.key")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv(integrity.KeyEnvVar, "")
	t.Setenv(integrity.KeyFileEnvVar, path)

	key, err := integrity.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

func TestLoadKeyFallsBackToBuildSecret(t *testing.T) {
	t.Setenv(integrity.KeyEnvVar, "")
	t.Setenv(integrity.KeyFileEnvVar, "")

	key, err := integrity.LoadKey()
	require.NoError(t, err)
	assert.Len(t, key, 32)

	// Derivation is stable across calls.
	again, err := integrity.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, key, again)
}
