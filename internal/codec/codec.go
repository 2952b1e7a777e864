package codec

import (
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

// Tag marks a value as ciphertext.
const Tag = "ENCRYPTED:"

// IsEncoded reports whether a raw value already carries the tag.
func IsEncoded(value string) bool {
	return strings.HasPrefix(value, Tag)
}

// Codec turns single values into tagged, single-line tokens and back.
type Codec struct {
	Cipher Cipher
	Key    []byte
}

// Encode encrypts a plaintext value. Already tagged values are returned as
// they are, so ciphertext is never encrypted twice. Values Decode could not
// give back unchanged fail with ErrUnsupportedValue.
func (c Codec) Encode(plain string) (string, error) {
	if IsEncoded(plain) {
		return plain, nil
	}
	if !textLine([]byte(plain)) {
		return "", fmt.Errorf("%w: value must be UTF-8 text without NUL or newline bytes", kerrors.ErrUnsupportedValue)
	}

	ct, err := c.Cipher.Encrypt([]byte(plain), c.Key)
	if err != nil {
		return "", fmt.Errorf("encrypting value: %w", err)
	}

	payload := base64.StdEncoding.EncodeToString(ct)
	payload = strings.NewReplacer("\r", "", "\n", "").Replace(payload)
	return Tag + payload, nil
}

// Decode decrypts a tagged value.
func (c Codec) Decode(encoded string) (string, error) {
	if !IsEncoded(encoded) {
		return "", kerrors.ErrNotEncoded
	}

	payload := strings.TrimSpace(strings.TrimPrefix(encoded, Tag))
	if payload == "" {
		return "", kerrors.ErrEmptyPayload
	}

	ct, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrInvalidEncoding, err)
	}

	plain, err := c.Cipher.Decrypt(ct, c.Key)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
