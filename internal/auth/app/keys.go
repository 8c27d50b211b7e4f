package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aussiebroadwan/keycard/pkg/cryptox"
	"github.com/aussiebroadwan/keycard/pkg/jwtx"
)

// LoadSigningKey builds the HS256 key from AUTH_JWT_SECRET, or from the
// file named by AUTH_JWT_SECRET_FILE. A missing secret, or one shorter than
// 256 bits, is an ErrConfiguration: the service refuses to start rather than
// sign with a guessable key.
func LoadSigningKey(cfg Config, logger *slog.Logger) (*jwtx.SigningKey, error) {
	raw := cfg.JWTSecret
	source := "AUTH_JWT_SECRET"

	if raw == "" && cfg.JWTSecretFile != "" {
		data, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read secret file: %w", ErrConfiguration, err)
		}
		raw = strings.TrimSpace(string(data))
		source = "AUTH_JWT_SECRET_FILE"
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: AUTH_JWT_SECRET or AUTH_JWT_SECRET_FILE must be set", ErrConfiguration)
	}

	secret, err := cryptox.DecodeSecret(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	key, err := jwtx.NewSigningKey(secret)
	if errors.Is(err, jwtx.ErrWeakKey) {
		return nil, fmt.Errorf("%w: %s is %d bits, need at least %d", ErrConfiguration, source, len(secret)*8, jwtx.MinSecretSize*8)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	logger.Info("signing key loaded", "source", source, "alg", key.Alg())
	return key, nil
}
