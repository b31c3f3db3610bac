// Package tokenstore keeps the provider-issued bearer token encrypted at
// rest. The key is derived from a passphrase with argon2id, so the token
// never touches disk in plaintext.
package tokenstore

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"

	"golang.org/x/crypto/argon2"

	cryptohelper "github.com/Kyrilous/AutoLogg/internal/shared/crypto"
)

// argon2id parameters tuned for interactive use.
const (
	memory      uint32 = 64 * 1024
	iterations  uint32 = 3
	parallelism uint8  = 2
	saltLength         = 16
)

var tokenAAD = []byte("autologg-token")

// ErrNoToken indicates no token has been stored yet.
var ErrNoToken = errors.New("no stored token, please login")

type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

// DefaultPath returns the token file location in the user's home dir.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return home + string(os.PathSeparator) + ".autologg_token"
}

// Save encrypts token under the passphrase-derived key and writes
// salt||sealed to disk base64 encoded with 0600 perms.
func (s *Store) Save(token string, passphrase []byte) error {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	key := deriveKey(passphrase, salt)
	sealed, err := cryptohelper.Seal(key, []byte(token), tokenAAD)
	if err != nil {
		return err
	}
	raw := append(salt, sealed...)
	b64 := base64.StdEncoding.EncodeToString(raw)
	return os.WriteFile(s.path, []byte(b64), 0600)
}

// Load reads and decrypts the stored token. A wrong passphrase surfaces
// as a decryption error.
func (s *Store) Load(passphrase []byte) (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(string(b))
	if err != nil {
		return "", err
	}
	if len(raw) <= saltLength {
		return "", errors.New("token file corrupted")
	}
	salt, sealed := raw[:saltLength], raw[saltLength:]
	key := deriveKey(passphrase, salt)
	token, err := cryptohelper.Open(key, sealed, tokenAAD)
	if err != nil {
		return "", errors.New("cannot decrypt token: wrong passphrase or corrupted file")
	}
	return string(token), nil
}

// Delete removes the token file. Deleting a missing file is not an error.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func deriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, iterations, memory, parallelism, cryptohelper.KeyLength)
}
