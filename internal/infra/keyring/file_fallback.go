package keyring

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

// defaultMasterPassword is used when no master password is configured.
// Files are then only protected by their permissions.
const defaultMasterPassword = "news-scraper-default-key"

// scrypt cost parameters
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
	keyLen  = 32
	saltLen = 16
)

// FileFallback stores passwords AES-GCM encrypted, one file per key.
type FileFallback struct {
	saltFile string // Path to the key derivation salt
	dataDir  string // Directory for encrypted password files
	secret   []byte // Derived encryption key
}

// NewFileFallback opens or creates an encrypted store in dataDir.
// The encryption key is derived from masterPassword with scrypt and a
// salt kept next to the password files. An empty masterPassword uses a
// built-in default.
func NewFileFallback(dataDir, masterPassword string) (*FileFallback, error) {
	if dataDir == "" {
		return nil, errors.New("data directory is required")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if masterPassword == "" {
		masterPassword = defaultMasterPassword
	}

	f := &FileFallback{
		saltFile: filepath.Join(dataDir, ".salt"),
		dataDir:  dataDir,
	}
	salt, err := f.loadOrCreateSalt()
	if err != nil {
		return nil, err
	}

	secret, err := scrypt.Key([]byte(masterPassword), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	f.secret = secret
	return f, nil
}

func (f *FileFallback) loadOrCreateSalt() ([]byte, error) {
	salt, err := os.ReadFile(f.saltFile)
	if err == nil {
		if len(salt) != saltLen {
			return nil, fmt.Errorf("corrupt salt file %s", f.saltFile)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	salt = make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := os.WriteFile(f.saltFile, salt, 0600); err != nil {
		return nil, fmt.Errorf("write salt: %w", err)
	}
	return salt, nil
}

// Set stores an encrypted password for the given key.
func (f *FileFallback) Set(ctx context.Context, key, password string) error {
	encrypted, err := f.encrypt(password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	filePath := f.getPasswordPath(key)
	if err := os.WriteFile(filePath, encrypted, 0600); err != nil {
		return fmt.Errorf("write password file: %w", err)
	}

	return nil
}

// Get retrieves and decrypts a password for the given key.
func (f *FileFallback) Get(ctx context.Context, key string) (string, error) {
	filePath := f.getPasswordPath(key)

	encrypted, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &ErrNotFound{Key: key}
		}
		return "", fmt.Errorf("read password file: %w", err)
	}

	password, err := f.decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("decrypt password: %w", err)
	}

	return password, nil
}

// Delete removes the password file for the given key.
func (f *FileFallback) Delete(ctx context.Context, key string) error {
	filePath := f.getPasswordPath(key)

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return &ErrNotFound{Key: key}
		}
		return fmt.Errorf("delete password file: %w", err)
	}

	return nil
}

// Available reports whether the data directory is writable.
func (f *FileFallback) Available(ctx context.Context) bool {
	testFile := filepath.Join(f.dataDir, ".available-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		return false
	}
	os.Remove(testFile)
	return true
}

// getPasswordPath returns the file path for a password key.
func (f *FileFallback) getPasswordPath(key string) string {
	// Hex keeps arbitrary keys safe as file names
	safeKey := hex.EncodeToString([]byte(key))
	return filepath.Join(f.dataDir, safeKey+".enc")
}

// encrypt encrypts plaintext using AES-GCM. The nonce is prepended.
func (f *FileFallback) encrypt(plaintext string) ([]byte, error) {
	gcm, err := f.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// decrypt decrypts ciphertext using AES-GCM.
func (f *FileFallback) decrypt(ciphertext []byte) (string, error) {
	gcm, err := f.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func (f *FileFallback) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(f.secret)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
