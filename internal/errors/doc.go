// Package errors provides typed error values for envcrypt.
//
// Callers check for conditions with errors.Is() instead of matching strings.
//
// # Error Categories
//
//   - Run errors: abort the whole batch (ErrNoKeyFound, ErrToolUnavailable)
//   - Stack errors: fail one stack only (ErrSourceMissing)
//   - Codec errors: raised per value (ErrEmptyPayload, ErrInvalidEncoding, ErrAuthentication)
//
// # Usage
//
// Wrap with context while keeping the sentinel reachable:
//
//	return fmt.Errorf("decoding %s: %w", key, errors.ErrAuthentication)
//
// Handle in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrNoKeyFound) {
//	    // tell the operator where keys are looked up
//	}
package errors
