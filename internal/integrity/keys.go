package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

const (
	// KeyEnvVar holds a hex-encoded signing key.
	KeyEnvVar = "EAI_SECURITY_CHECK_HMAC_KEY"
	// KeyFileEnvVar points at a file containing the raw signing key.
	KeyFileEnvVar = "EAI_SECURITY_CHECK_HMAC_KEY_FILE"

	keySize = 32
)

// buildSecret is the fallback signing secret, replaceable at build time:
//
//	go build -ldflags "-X .../internal/integrity.buildSecret=..."
var buildSecret = "eai-security-check-report-signing-v1"

// LoadKey resolves the HMAC key. Priority: environment variable (hex),
// key file path from the environment, then a key derived from the
// build-time secret. A present-but-malformed source is an error rather
// than a silent fallback.
func LoadKey() ([]byte, error) {
	if keyHex := os.Getenv(KeyEnvVar); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid hex key in %s: %w", KeyEnvVar, err)
		}
		if len(key) != keySize {
			return nil, fmt.Errorf("key in %s must be %d bytes, got %d", KeyEnvVar, keySize, len(key))
		}
		return key, nil
	}

	if keyPath := os.Getenv(KeyFileEnvVar); keyPath != "" {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file %s: %w", keyPath, err)
		}
		if len(key) != keySize {
			return nil, fmt.Errorf("key file %s must be %d bytes, got %d", keyPath, keySize, len(key))
		}
		return key, nil
	}

	derived := sha256.Sum256([]byte(buildSecret))
	return derived[:], nil
}
