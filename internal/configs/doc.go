// Package configs loads project configuration for envcrypt.
//
// Configuration lives in .envcrypt.toml at the project root:
//
//	[key]
//	env  = "ENVCRYPT_KEY"    # environment variable holding the passphrase
//	file = ".envcrypt.key"   # local, unversioned key file
//
//	[files]
//	source         = ".env"
//	encrypted      = ".env.encrypted"
//	exclude        = ["**/vendor/**"]
//	plaintext_keys = ["PUBLIC_*"]
//
//	[batch]
//	workers   = 1
//	staleness = "mtime"       # or "content"
//
//	[cipher]
//	backend    = "native"     # or "openssl"
//	iterations = 10000
//
//	[audit]
//	enabled = false
//	path    = ".envcrypt/audit.jsonl"
//
// Every field is optional; Default() supplies the rest. FindProjectRoot walks
// parent directories for the file so commands work from inside a stack.
package configs
