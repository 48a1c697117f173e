// Package integrity signs rendered report text and later verifies it was
// not altered. The signature is a keyed hash over the exact content bytes,
// carried in a delimited envelope appended to the content itself so the
// signed file stays self-contained.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Algorithm names the only envelope algorithm this tool produces.
	Algorithm = "HMAC-SHA256"

	// ShortHashLength is the length of the human-readable hash prefix.
	ShortHashLength = 12

	beginMarker = "-----BEGIN SECURITY REPORT SIGNATURE-----"
	endMarker   = "-----END SECURITY REPORT SIGNATURE-----"
)

// Envelope parsing errors. Both surface through VerificationResult, never
// as a crash.
var (
	ErrMissingEnvelope   = errors.New("no signature envelope found")
	ErrMalformedEnvelope = errors.New("malformed signature envelope")
)

// Metadata describes the signing context embedded in the envelope.
type Metadata struct {
	Platform     string
	Hostname     string
	Distribution string // optional
	ConfigSource string // optional
}

// Envelope is the parsed trailing signature block.
type Envelope struct {
	Algorithm string
	Hash      string
	Timestamp string
	ReportID  string
	Metadata  Metadata
}

// SignedReport is the result of signing: the self-contained signed text
// plus the envelope that was appended to it.
type SignedReport struct {
	SignedContent string
	Envelope      Envelope
	ShortHash     string
}

// VerificationResult reports the outcome of verifying a signed file. On a
// hash mismatch both hashes are surfaced (truncated in Message) so an
// operator can compare them.
type VerificationResult struct {
	IsValid        bool
	Message        string
	OriginalHash   string
	CalculatedHash string
	Envelope       *Envelope
}

// Signer signs and verifies report content with a fixed HMAC key.
// Verification is deterministic and side-effect-free.
type Signer struct {
	key []byte
	now func() time.Time
}

// NewSigner creates a Signer using the configured key sources.
func NewSigner() (*Signer, error) {
	key, err := LoadKey()
	if err != nil {
		return nil, err
	}
	return NewSignerWithKey(key), nil
}

// NewSignerWithKey creates a Signer from an explicit key.
func NewSignerWithKey(key []byte) *Signer {
	return &Signer{key: key, now: time.Now}
}

// Sign computes the keyed hash over the exact content bytes and appends the
// delimited envelope. The hash covers only the content, never the envelope,
// so signing identical content twice yields the identical hash.
func (s *Signer) Sign(content string, meta Metadata) (*SignedReport, error) {
	if content == "" {
		return nil, errors.New("cannot sign empty content")
	}

	env := Envelope{
		Algorithm: Algorithm,
		Hash:      s.computeHash(content),
		Timestamp: s.now().UTC().Format(time.RFC3339),
		ReportID:  uuid.NewString(),
		Metadata:  meta,
	}

	return &SignedReport{
		SignedContent: content + renderEnvelope(env),
		Envelope:      env,
		ShortHash:     ShortHash(env.Hash),
	}, nil
}

// Verify locates and parses the trailing envelope, strips it to recover the
// original content, recomputes the hash, and compares. Any problem yields
// IsValid=false with an explanatory message; Verify never fails hard.
func (s *Signer) Verify(fileContent string) VerificationResult {
	env, original, err := splitEnvelope(fileContent)
	if err != nil {
		return VerificationResult{
			IsValid: false,
			Message: err.Error(),
		}
	}

	if env.Algorithm != Algorithm {
		return VerificationResult{
			IsValid:      false,
			Message:      fmt.Sprintf("unsupported signature algorithm %q", env.Algorithm),
			OriginalHash: env.Hash,
			Envelope:     env,
		}
	}

	calculated := s.computeHash(original)
	if !hmac.Equal([]byte(calculated), []byte(env.Hash)) {
		return VerificationResult{
			IsValid: false,
			Message: fmt.Sprintf("hash mismatch: stored %s, calculated %s - content was modified after signing",
				ShortHash(env.Hash), ShortHash(calculated)),
			OriginalHash:   env.Hash,
			CalculatedHash: calculated,
			Envelope:       env,
		}
	}

	return VerificationResult{
		IsValid:        true,
		Message:        fmt.Sprintf("signature valid (%s, signed %s)", ShortHash(env.Hash), env.Timestamp),
		OriginalHash:   env.Hash,
		CalculatedHash: calculated,
		Envelope:       env,
	}
}

// ExtractEnvelope parses the trailing envelope without verifying it.
// Returns nil when the content carries no envelope.
func ExtractEnvelope(fileContent string) *Envelope {
	env, _, err := splitEnvelope(fileContent)
	if err != nil {
		return nil
	}
	return env
}

// ShortHash returns the fixed-length hex prefix used in human-readable
// output.
func ShortHash(fullHash string) string {
	if len(fullHash) <= ShortHashLength {
		return fullHash
	}
	return fullHash[:ShortHashLength]
}

func (s *Signer) computeHash(content string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(content))
	return hex.EncodeToString(mac.Sum(nil))
}

// renderEnvelope produces the delimited block appended to signed content.
// The leading newline separates the envelope from content that does not end
// in one; splitEnvelope treats it as part of the envelope, so the original
// bytes round-trip exactly.
func renderEnvelope(env Envelope) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(beginMarker)
	sb.WriteString("\n")
	writeField(&sb, "algorithm", env.Algorithm)
	writeField(&sb, "timestamp", env.Timestamp)
	writeField(&sb, "hash", env.Hash)
	writeField(&sb, "report-id", env.ReportID)
	writeField(&sb, "platform", env.Metadata.Platform)
	writeField(&sb, "hostname", env.Metadata.Hostname)
	if env.Metadata.Distribution != "" {
		writeField(&sb, "distribution", env.Metadata.Distribution)
	}
	if env.Metadata.ConfigSource != "" {
		writeField(&sb, "config-source", env.Metadata.ConfigSource)
	}
	sb.WriteString(endMarker)
	sb.WriteString("\n")
	return sb.String()
}

func writeField(sb *strings.Builder, key, value string) {
	sb.WriteString(key)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

// splitEnvelope locates the last envelope in fileContent and returns the
// parsed envelope plus the original pre-envelope content.
func splitEnvelope(fileContent string) (*Envelope, string, error) {
	idx := strings.LastIndex(fileContent, "\n"+beginMarker+"\n")
	if idx < 0 {
		return nil, "", ErrMissingEnvelope
	}
	original := fileContent[:idx]
	block := fileContent[idx+1:]

	env, err := parseEnvelope(block)
	if err != nil {
		return nil, "", err
	}
	return env, original, nil
}

// parseEnvelope parses a delimited envelope block: the begin marker, tagged
// "key: value" lines, then the end marker. This small explicit grammar is
// deliberately decoupled from the human-readable report rendering.
func parseEnvelope(block string) (*Envelope, error) {
	lines := strings.Split(block, "\n")
	if len(lines) == 0 || lines[0] != beginMarker {
		return nil, ErrMalformedEnvelope
	}

	env := &Envelope{}
	terminated := false
	for _, line := range lines[1:] {
		if line == endMarker {
			terminated = true
			break
		}
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("%w: bad field line %q", ErrMalformedEnvelope, line)
		}
		switch key {
		case "algorithm":
			env.Algorithm = value
		case "timestamp":
			env.Timestamp = value
		case "hash":
			env.Hash = value
		case "report-id":
			env.ReportID = value
		case "platform":
			env.Metadata.Platform = value
		case "hostname":
			env.Metadata.Hostname = value
		case "distribution":
			env.Metadata.Distribution = value
		case "config-source":
			env.Metadata.ConfigSource = value
		default:
			// Unknown fields are tolerated for forward compatibility.
		}
	}
	if !terminated {
		return nil, fmt.Errorf("%w: missing end marker", ErrMalformedEnvelope)
	}
	if env.Algorithm == "" || env.Hash == "" || env.Timestamp == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrMalformedEnvelope)
	}
	return env, nil
}
