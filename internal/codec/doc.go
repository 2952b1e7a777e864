// Package codec encrypts individual .env values.
//
// An encoded value looks like
//
//	ENCRYPTED:U2FsdGVkX1...
//
// where the payload is single-line base64 of the OpenSSL salted format:
// "Salted__", an 8 byte random salt, then AES-256-CBC ciphertext with PKCS#7
// padding. Key and IV come from PBKDF2-HMAC-SHA256 over the passphrase and
// salt, so the same value encodes differently every time.
//
// Two Cipher backends produce identical bytes:
//
//   - NativeCipher: pure Go, the default
//   - ToolCipher: runs the openssl binary, for parity with shell tooling
//
// CBC carries no MAC. A wrong passphrase is detected only by the padding and
// plaintext checks, and is reported as ErrAuthentication together with
// corruption.
package codec
