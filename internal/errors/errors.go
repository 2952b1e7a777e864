package errors

import "errors"

// Run errors abort a batch before any file is touched.
var (
	// ErrNoKeyFound indicates no passphrase could be resolved from any source.
	ErrNoKeyFound = errors.New("no encryption key found")

	// ErrToolUnavailable indicates the external cipher utility could not be located.
	ErrToolUnavailable = errors.New("cipher tool is not available")

	// ErrUnknownCipher indicates the configured cipher backend is not recognised.
	ErrUnknownCipher = errors.New("unknown cipher backend")

	// ErrInvalidConfig indicates the project configuration is malformed.
	ErrInvalidConfig = errors.New("project configuration is invalid")

	// ErrAlreadyInitialized indicates init found an existing configuration.
	ErrAlreadyInitialized = errors.New("project is already initialized")
)

// Stack errors fail a single stack and never its siblings.
var (
	// ErrSourceMissing indicates the expected source file for a stack does not exist.
	ErrSourceMissing = errors.New("source file not found")

	// ErrNoStacksFound indicates discovery returned no candidate files.
	ErrNoStacksFound = errors.New("no stacks found")

	// ErrStackOutsideRoot indicates a selected stack name resolves outside the project root.
	ErrStackOutsideRoot = errors.New("stack is outside the project root")
)

// Codec errors are produced while encoding or decoding a single value.
var (
	// ErrEmptyPayload indicates a value carries the tag but no ciphertext.
	ErrEmptyPayload = errors.New("encrypted value has an empty payload")

	// ErrInvalidEncoding indicates the payload is not valid base64.
	ErrInvalidEncoding = errors.New("encrypted value is not valid base64")

	// ErrAuthentication indicates the cipher rejected the ciphertext. The
	// construction has no MAC, so a wrong key and corrupted data look the same.
	ErrAuthentication = errors.New("incorrect key or corrupted data")

	// ErrNotEncoded indicates a value handed to the decoder lacks the tag.
	ErrNotEncoded = errors.New("value is not encrypted")

	// ErrUnsupportedValue indicates a plaintext value cannot survive a round trip.
	ErrUnsupportedValue = errors.New("value cannot be encrypted")
)

// ErrBatchFailed indicates at least one stack failed during a batch run.
var ErrBatchFailed = errors.New("one or more stacks failed")
