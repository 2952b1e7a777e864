package transform

import (
	"path"
	"strings"
)

// Policy decides which plaintext assignments are worth encrypting.
//
// Boolean flags such as DEBUG=false are left readable by default; set
// EncryptBooleans to encrypt them too. PlaintextKeys holds path.Match style
// patterns of key names that are never encrypted.
type Policy struct {
	PlaintextKeys   []string
	EncryptBooleans bool
}

var booleanLiterals = map[string]bool{
	"true": true, "false": true,
	"yes": true, "no": true,
	"on": true, "off": true,
}

// KeyName strips an optional "export " prefix and surrounding spaces.
func KeyName(rawKey string) string {
	k := strings.TrimSpace(rawKey)
	k = strings.TrimPrefix(k, "export ")
	return strings.TrimSpace(k)
}

// Encrypts reports whether a plaintext value under key should be encrypted.
func (p Policy) Encrypts(key, value string) bool {
	if value == "" {
		return false
	}
	name := KeyName(key)
	for _, pattern := range p.PlaintextKeys {
		if ok, _ := path.Match(pattern, name); ok {
			return false
		}
	}
	if !p.EncryptBooleans && booleanLiterals[strings.ToLower(strings.TrimSpace(value))] {
		return false
	}
	return true
}
