package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oakmount/stash/pkg/cryptox"
	"github.com/oakmount/stash/pkg/jwtx"
)

// InitSigningKeys builds the Ed25519 signer and the key set used for
// verification.
//
// When SigningKeyFile is set the key is loaded from PEM and tokens survive
// restarts. Otherwise an ephemeral key is generated on startup, which
// invalidates every previously issued token.
func InitSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	var pemKey []byte
	var err error

	if cfg.SigningKeyFile != "" {
		pemKey, err = os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read signing key %s: %w", cfg.SigningKeyFile, err)
		}
		logger.Info("loaded signing key from file", "path", cfg.SigningKeyFile, "kid", cfg.KeyID)
	} else {
		pemKey, err = cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		logger.Info("generated ephemeral signing key", "kid", cfg.KeyID)
		logger.Warn("all existing tokens are now invalid due to key rotation on startup")
	}

	signer, err := jwtx.NewSignerEdDSA(cfg.KeyID, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	return signer, keys, nil
}
