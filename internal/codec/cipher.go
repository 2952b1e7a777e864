package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations matches the openssl enc default when -pbkdf2 is given.
const DefaultIterations = 10000

const (
	saltMagic = "Salted__"
	saltSize  = 8
	keySize   = 32
)

// Cipher encrypts and decrypts raw bytes under a passphrase.
type Cipher interface {
	Name() string
	Encrypt(plaintext, passphrase []byte) ([]byte, error)
	Decrypt(ciphertext, passphrase []byte) ([]byte, error)
}

// New returns the cipher backend with the given name. An empty name selects "native".
func New(backend string, iterations int) (Cipher, error) {
	switch strings.ToLower(backend) {
	case "", "native":
		return NativeCipher{Iterations: iterations}, nil
	case "openssl":
		return NewToolCipher("", iterations)
	default:
		return nil, fmt.Errorf("%w: %q", kerrors.ErrUnknownCipher, backend)
	}
}

// NativeCipher produces the salted format of `openssl enc -aes-256-cbc
// -pbkdf2 -md sha256`: "Salted__" || salt || AES-256-CBC(PKCS#7).
type NativeCipher struct {
	Iterations int
}

func (NativeCipher) Name() string { return "native" }

func (c NativeCipher) iterations() int {
	if c.Iterations <= 0 {
		return DefaultIterations
	}
	return c.Iterations
}

// deriveKeyIV splits one PBKDF2 output into the AES key and the CBC IV.
func (c NativeCipher) deriveKeyIV(passphrase, salt []byte) (key, iv []byte) {
	out := pbkdf2.Key(passphrase, salt, c.iterations(), keySize+aes.BlockSize, sha256.New)
	return out[:keySize], out[keySize:]
}

func (c NativeCipher) Encrypt(plaintext, passphrase []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, iv := c.deriveKeyIV(passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(saltMagic)+saltSize+len(padded))
	copy(out, saltMagic)
	copy(out[len(saltMagic):], salt)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[len(saltMagic)+saltSize:], padded)

	return out, nil
}

// Decrypt reports every rejection as ErrAuthentication. Besides padding it
// requires the plaintext to be a single line of valid UTF-8, which catches
// most wrong keys whose garbage happens to carry valid padding.
func (c NativeCipher) Decrypt(ciphertext, passphrase []byte) ([]byte, error) {
	header := len(saltMagic) + saltSize
	if len(ciphertext) < header+aes.BlockSize || !bytes.HasPrefix(ciphertext, []byte(saltMagic)) {
		return nil, fmt.Errorf("%w: missing salted header", kerrors.ErrAuthentication)
	}
	body := ciphertext[header:]
	if len(body)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", kerrors.ErrAuthentication)
	}

	key, iv := c.deriveKeyIV(passphrase, ciphertext[len(saltMagic):header])
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes cipher: %w", err)
	}

	plain := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, body)

	plain, err = pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	return checkPlaintext(plain)
}

// checkPlaintext trims the single trailing newline that shell pipelines
// (echo | openssl) leave behind and rejects anything Encode would not accept.
func checkPlaintext(plain []byte) ([]byte, error) {
	plain = bytes.TrimSuffix(plain, []byte("\n"))
	if !textLine(plain) {
		return nil, fmt.Errorf("%w: plaintext is not a single text line", kerrors.ErrAuthentication)
	}
	return plain, nil
}

// textLine reports whether b is UTF-8 without NUL or line feed bytes.
func textLine(b []byte) bool {
	return utf8.Valid(b) && bytes.IndexAny(b, "\n\x00") < 0
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext block", kerrors.ErrAuthentication)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", kerrors.ErrAuthentication)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", kerrors.ErrAuthentication)
		}
	}
	return data[:len(data)-n], nil
}
