package ui

import (
	"context"
	"errors"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

// Cause turns an error into the one-line explanation shown to the operator.
// Unknown errors fall back to their own message.
func Cause(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, kerrors.ErrAuthentication):
		return "incorrect key or corrupted data, verify that you are using the right key"
	case errors.Is(err, kerrors.ErrInvalidEncoding):
		return "encrypted value is not valid base64, the file may have been edited by hand"
	case errors.Is(err, kerrors.ErrEmptyPayload):
		return "encrypted value has an empty payload"
	case errors.Is(err, kerrors.ErrUnsupportedValue):
		return "value is not UTF-8 text or contains NUL bytes, convert the file to UTF-8"
	case errors.Is(err, kerrors.ErrStackOutsideRoot):
		return "stack name must be a path inside the project root"
	case errors.Is(err, kerrors.ErrSourceMissing):
		return "source file does not exist"
	case errors.Is(err, kerrors.ErrNoKeyFound):
		return "no key found, pass --key, set the key environment variable or create the key file"
	case errors.Is(err, kerrors.ErrToolUnavailable):
		return "the openssl binary could not be found, install it or use the native cipher backend"
	case errors.Is(err, context.Canceled):
		return "run was cancelled before this stack was processed"
	default:
		return err.Error()
	}
}
