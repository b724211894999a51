// Package keyring provides encrypted storage for database passwords.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PasswordPlaceholder marks where a stored password goes in a DSN.
const PasswordPlaceholder = "{password}"

// HistoryPasswordKey is the key of the history database password.
const HistoryPasswordKey = "history-dsn"

// Provider defines the interface for password storage operations.
type Provider interface {
	// Set stores a password for the given key.
	Set(ctx context.Context, key, password string) error

	// Get retrieves a password for the given key.
	// Returns an error if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a password for the given key.
	// Returns an error if the key is not found.
	Delete(ctx context.Context, key string) error

	// Available checks if the provider can store passwords.
	Available(ctx context.Context) bool
}

// ErrNotFound is returned when a key is not found in the keyring.
type ErrNotFound struct {
	Key string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

// IsNotFound checks if an error is ErrNotFound.
func IsNotFound(err error) bool {
	var nf *ErrNotFound
	return errors.As(err, &nf)
}

// ExpandDSN replaces PasswordPlaceholder in dsn with the password stored
// under key. DSNs without the placeholder are returned unchanged and the
// provider is not consulted.
func ExpandDSN(ctx context.Context, p Provider, key, dsn string) (string, error) {
	if !strings.Contains(dsn, PasswordPlaceholder) {
		return dsn, nil
	}
	if p == nil {
		return "", fmt.Errorf("dsn needs password %q but no keyring is configured", key)
	}
	password, err := p.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("dsn password: %w", err)
	}
	return strings.ReplaceAll(dsn, PasswordPlaceholder, password), nil
}
