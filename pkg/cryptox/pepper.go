package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PepperSize is the number of random bytes in a generated pepper.
const PepperSize = 32

// LoadOrCreatePepper reads the pepper stored at path. When the file does not
// exist a new random pepper is written there (mode 0600) and returned.
func LoadOrCreatePepper(path string) ([]byte, error) {
	path = filepath.Clean(path)

	data, err := os.ReadFile(path)
	if err == nil {
		pepper := strings.TrimSpace(string(data))
		if pepper == "" {
			return nil, fmt.Errorf("pepper file %s is empty", path)
		}
		return []byte(pepper), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read pepper: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create pepper dir: %w", err)
	}

	pepper, err := GenerateToken(PepperSize)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(pepper), 0o600); err != nil {
		return nil, fmt.Errorf("write pepper: %w", err)
	}
	return []byte(pepper), nil
}

// DecodeSecret decodes a configured secret. Values prefixed with "base64:"
// are decoded (standard or URL alphabet, padding optional); anything else is
// taken verbatim.
func DecodeSecret(value string) ([]byte, error) {
	rest, ok := strings.CutPrefix(value, "base64:")
	if !ok {
		return []byte(value), nil
	}
	rest = strings.TrimRight(rest, "=")
	if b, err := base64.RawStdEncoding.DecodeString(rest); err == nil {
		return b, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(rest)
	if err != nil {
		return nil, fmt.Errorf("decode base64 secret: %w", err)
	}
	return b, nil
}
