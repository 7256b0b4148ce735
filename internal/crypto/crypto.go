// Package crypto wraps fernet token handling for broker API secrets.
// Only ciphertext ever reaches the database; the key comes from SECRET_KEY.
package crypto

import (
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
)

// Sealer encrypts and decrypts broker secrets. The first key is used for
// sealing; all keys are tried when opening, which allows key rotation by
// prepending a new key.
type Sealer struct {
	keys []*fernet.Key
}

// NewSealer creates a Sealer from one or more base64-encoded fernet keys
// separated by commas.
func NewSealer(encodedKeys string) (*Sealer, error) {
	keys, err := fernet.DecodeKeys(strings.Split(encodedKeys, ",")...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret key: %w", err)
	}
	return &Sealer{keys: keys}, nil
}

// GenerateKey produces a fresh base64-encoded fernet key, for initial setup.
func GenerateKey() (string, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return key.Encode(), nil
}

// Seal encrypts a plaintext secret into a fernet token.
func (s *Sealer) Seal(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), s.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return string(token), nil
}

// Open decrypts a fernet token. A TTL of zero disables token expiry; stored
// secrets stay valid until replaced.
func (s *Sealer) Open(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, s.keys)
	if plaintext == nil {
		return "", apperrors.ErrSecretDecrypt
	}
	return string(plaintext), nil
}
