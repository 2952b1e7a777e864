// Package workflows provides high-level orchestration for envcrypt commands.
//
// Workflows coordinate the other packages (configs, keys, codec, batch,
// audit) to implement complete user-facing features, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Available Workflows
//
//   - Encrypt: encrypts each stack's .env into its encrypted sibling
//   - Decrypt: decrypts encrypted files back to .env
//   - Status: reports which stacks are current, stale or unencrypted
//   - Init: writes the project config and, optionally, the key file
//
// # Ordering
//
// Encrypt and Decrypt load the config, resolve the key and build the cipher
// before any stack is read. A failure in any of those steps returns early
// with nothing written.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrNoKeyFound) {
//	    // tell the operator where keys are looked up
//	}
//
// ErrBatchFailed is returned alongside a non-nil result so the caller can
// still report every stack.
package workflows
