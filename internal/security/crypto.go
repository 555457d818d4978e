package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Crypto provides AES-256-GCM application-level encryption for sensitive
// columns (KYC reviewer notes). The envelope is stored as JSON so a plain
// value already in the column can be recognized and passed through.
type Crypto struct {
	key []byte
}

type envelope struct {
	IV         string `json:"iv"`
	AuthTag    string `json:"auth_tag"`
	Ciphertext string `json:"ciphertext"`
}

var ErrBadKey = errors.New("data key must be 32 bytes base64")

// New builds a Crypto from a base64 32-byte key. An empty key is allowed in
// development and falls back to an all-zero key; production boots should pass
// a real key.
func New(b64Key string) (*Crypto, error) {
	if b64Key == "" {
		return &Crypto{key: make([]byte, 32)}, nil
	}
	key, err := base64.StdEncoding.DecodeString(b64Key)
	if err != nil || len(key) != 32 {
		return nil, ErrBadKey
	}
	return &Crypto{key: key}, nil
}

// EncryptString seals plaintext and returns the JSON envelope. Empty input
// returns empty output.
func (c *Crypto) EncryptString(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	// gcm.Seal appends the 16-byte tag to the ciphertext
	ct, tag := sealed[:len(sealed)-16], sealed[len(sealed)-16:]
	env := envelope{
		IV:         base64.StdEncoding.EncodeToString(iv),
		AuthTag:    base64.StdEncoding.EncodeToString(tag),
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
	}
	out, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecryptString opens a JSON envelope produced by EncryptString. Input that
// is not an envelope is returned unchanged.
func (c *Crypto) DecryptString(stored string) string {
	if stored == "" {
		return ""
	}
	var env envelope
	if err := json.Unmarshal([]byte(stored), &env); err != nil || env.IV == "" || env.AuthTag == "" || env.Ciphertext == "" {
		return stored
	}
	iv, err1 := base64.StdEncoding.DecodeString(env.IV)
	tag, err2 := base64.StdEncoding.DecodeString(env.AuthTag)
	ct, err3 := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err1 != nil || err2 != nil || err3 != nil {
		return stored
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return stored
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return stored
	}
	plaintext, err := gcm.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return stored
	}
	return string(plaintext)
}

// MustNew is a convenience for wiring; it panics only on a malformed key.
func MustNew(b64Key string) *Crypto {
	c, err := New(b64Key)
	if err != nil {
		panic(fmt.Sprintf("security: %v", err))
	}
	return c
}
