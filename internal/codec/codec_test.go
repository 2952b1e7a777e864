package codec

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

func newTestCodec(key string) Codec {
	return Codec{Cipher: NativeCipher{}, Key: []byte(key)}
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newTestCodec("s3cret")
	values := []string{
		"postgres://u:p@host/db",
		"false",
		"a",
		"value with spaces",
		"\"quoted\"",
		"with=equals=signs",
		"exactly16bytes!!",
		strings.Repeat("x", 1000),
		"unicode: héllo wörld ✓",
		"tail\r",
		"a\rb",
	}

	for _, v := range values {
		encoded, err := c.Encode(v)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", v, err)
		}
		decoded, err := c.Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(Encode(%q)) failed: %v", v, err)
		}
		if decoded != v {
			t.Errorf("Round trip mismatch: got %q, want %q", decoded, v)
		}
	}
}

func TestCodec_EncodeFormat(t *testing.T) {
	encoded, err := newTestCodec("s3cret").Encode("postgres://u:p@host/db")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.HasPrefix(encoded, Tag+"U2FsdGVkX1") {
		t.Errorf("Expected salted OpenSSL header in payload, got %q", encoded)
	}
	if strings.ContainsAny(encoded, " \t\r\n") {
		t.Errorf("Encoded value must be a single whitespace-free line, got %q", encoded)
	}
}

func TestCodec_EncodeIsNonDeterministic(t *testing.T) {
	c := newTestCodec("s3cret")

	first, err := c.Encode("same-value")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := c.Encode("same-value")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if first == second {
		t.Errorf("Expected different ciphertexts for repeated encodes, got %q twice", first)
	}
	for _, enc := range []string{first, second} {
		got, err := c.Decode(enc)
		if err != nil || got != "same-value" {
			t.Errorf("Decode(%q) = %q, %v", enc, got, err)
		}
	}
}

func TestCodec_EncodeIsIdempotent(t *testing.T) {
	c := newTestCodec("s3cret")
	encoded, err := c.Encode("value")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	again, err := c.Encode(encoded)
	if err != nil {
		t.Fatalf("Encode of encoded value failed: %v", err)
	}
	if again != encoded {
		t.Errorf("Expected tagged value unchanged, got %q want %q", again, encoded)
	}
}

func TestCodec_WrongKeyRejected(t *testing.T) {
	right := newTestCodec("s3cret")
	wrong := newTestCodec("wrong")

	for i := 0; i < 25; i++ {
		encoded, err := right.Encode("postgres://u:p@host/db")
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := wrong.Decode(encoded)
		if !errors.Is(err, kerrors.ErrAuthentication) {
			t.Fatalf("Expected ErrAuthentication, got value %q and err %v", got, err)
		}
	}
}

func TestCodec_DecodeErrors(t *testing.T) {
	c := newTestCodec("s3cret")

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "untagged", input: "plain", wantErr: kerrors.ErrNotEncoded},
		{name: "empty payload", input: "ENCRYPTED:", wantErr: kerrors.ErrEmptyPayload},
		{name: "whitespace payload", input: "ENCRYPTED:   ", wantErr: kerrors.ErrEmptyPayload},
		{name: "invalid base64", input: "ENCRYPTED:not*base64!", wantErr: kerrors.ErrInvalidEncoding},
		{name: "no salted header", input: "ENCRYPTED:aGVsbG8gd29ybGQgaGVsbG8gd29ybGQ=", wantErr: kerrors.ErrAuthentication},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestCodec_CorruptedCiphertext(t *testing.T) {
	c := newTestCodec("s3cret")
	encoded, err := c.Encode("some secret value")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Drop the final block so the length is no longer block aligned.
	truncated := encoded[:len(encoded)-8]
	if _, err := c.Decode(truncated); err == nil {
		t.Errorf("Expected an error decoding truncated ciphertext")
	}
}

func TestNativeCipher_TrimsTrailingNewline(t *testing.T) {
	nc := NativeCipher{}
	ct, err := nc.Encrypt([]byte("value\n"), []byte("k"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	plain, err := nc.Decrypt(ct, []byte("k"))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(plain) != "value" {
		t.Errorf("Expected trailing newline trimmed, got %q", plain)
	}
}

func TestNativeCipher_TrimsOnlyOneNewline(t *testing.T) {
	nc := NativeCipher{}
	ct, err := nc.Encrypt([]byte("value\r\n"), []byte("k"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	plain, err := nc.Decrypt(ct, []byte("k"))
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(plain) != "value\r" {
		t.Errorf("Expected only the line feed trimmed, got %q", plain)
	}

	ct, err = nc.Encrypt([]byte("value\n\n"), []byte("k"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := nc.Decrypt(ct, []byte("k")); !errors.Is(err, kerrors.ErrAuthentication) {
		t.Errorf("Expected embedded newline to be rejected, got %v", err)
	}
}

func TestCodec_EncodeRejectsUnsupported(t *testing.T) {
	c := newTestCodec("s3cret")

	for _, value := range []string{"caf\xe9", "a\x00b", "two\nlines", "tail\n"} {
		got, err := c.Encode(value)
		if !errors.Is(err, kerrors.ErrUnsupportedValue) {
			t.Errorf("Encode(%q) = %q, %v, want ErrUnsupportedValue", value, got, err)
		}
	}
}

func TestPKCS7(t *testing.T) {
	for n := 0; n <= 32; n++ {
		data := bytes.Repeat([]byte{'a'}, n)
		padded := pkcs7Pad(data, 16)
		if len(padded)%16 != 0 || len(padded) <= n {
			t.Fatalf("pkcs7Pad(%d bytes) produced %d bytes", n, len(padded))
		}
		got, err := pkcs7Unpad(padded, 16)
		if err != nil || !bytes.Equal(got, data) {
			t.Errorf("pkcs7Unpad(pkcs7Pad(%d bytes)) = %v, %v", n, got, err)
		}
	}

	if _, err := pkcs7Unpad([]byte{1, 2, 3, 0}, 16); !errors.Is(err, kerrors.ErrAuthentication) {
		t.Errorf("Expected zero padding to be rejected, got %v", err)
	}
}

func TestNew(t *testing.T) {
	c, err := New("", 0)
	if err != nil || c.Name() != "native" {
		t.Errorf("New(\"\") = %v, %v", c, err)
	}

	if _, err := New("rot13", 0); !errors.Is(err, kerrors.ErrUnknownCipher) {
		t.Errorf("Expected ErrUnknownCipher, got %v", err)
	}
}

func TestNewToolCipher_Missing(t *testing.T) {
	_, err := NewToolCipher("envcrypt-no-such-binary", 0)
	if !errors.Is(err, kerrors.ErrToolUnavailable) {
		t.Errorf("Expected ErrToolUnavailable, got %v", err)
	}
}

// requireOpenSSL skips unless an openssl supporting -pbkdf2 is installed.
func requireOpenSSL(t *testing.T) *ToolCipher {
	t.Helper()
	if _, err := exec.LookPath("openssl"); err != nil {
		t.Skip("openssl not installed")
	}
	tc, err := NewToolCipher("", 0)
	if err != nil {
		t.Skipf("openssl unavailable: %v", err)
	}
	if _, err := tc.Encrypt([]byte("check"), []byte("check")); err != nil {
		t.Skipf("openssl does not support -pbkdf2: %v", err)
	}
	return tc
}

func TestToolCipher_ParityWithNative(t *testing.T) {
	tc := requireOpenSSL(t)
	nc := NativeCipher{}
	pass := []byte("s3cret")

	ct, err := nc.Encrypt([]byte("postgres://u:p@host/db"), pass)
	if err != nil {
		t.Fatalf("Native encrypt failed: %v", err)
	}
	plain, err := tc.Decrypt(ct, pass)
	if err != nil {
		t.Fatalf("openssl could not decrypt native ciphertext: %v", err)
	}
	if string(plain) != "postgres://u:p@host/db" {
		t.Errorf("openssl decrypted %q", plain)
	}

	ct, err = tc.Encrypt([]byte("from-openssl"), pass)
	if err != nil {
		t.Fatalf("openssl encrypt failed: %v", err)
	}
	plain, err = nc.Decrypt(ct, pass)
	if err != nil {
		t.Fatalf("Native cipher could not decrypt openssl ciphertext: %v", err)
	}
	if string(plain) != "from-openssl" {
		t.Errorf("Native decrypted %q", plain)
	}
}
