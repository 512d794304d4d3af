package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const signingSecretKey = "signing_secret"

// GetSigningSecret returns the key used to sign flash cookies, creating a
// random one on first use. Concurrent first calls all get the stored value.
func (s *Store) GetSigningSecret(ctx context.Context) (string, error) {
	return s.settingOrInit(ctx, signingSecretKey, randomHex)
}

func randomHex() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// settingOrInit returns the value stored under key, storing the result of
// init first when the key is unset.
func (s *Store) settingOrInit(ctx context.Context, key string, init func() (string, error)) (string, error) {
	candidate, err := init()
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`,
		key, candidate,
	); err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	var value string
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value); err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}
