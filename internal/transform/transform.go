// Package transform applies a value codec to every assignment in a file while
// leaving its structure intact.
package transform

import (
	"errors"
	"fmt"

	"github.com/PolarWolf314/envcrypt/internal/codec"
	"github.com/PolarWolf314/envcrypt/internal/envfile"
	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

// Direction selects encoding or decoding.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func (d Direction) String() string {
	if d == Decrypt {
		return "decrypt"
	}
	return "encrypt"
}

// ValueCodec is satisfied by codec.Codec.
type ValueCodec interface {
	Encode(plain string) (string, error)
	Decode(encoded string) (string, error)
}

// Warning is a recoverable per-line condition.
type Warning struct {
	Line    int
	Key     string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d (%s): %s", w.Line, w.Key, w.Message)
}

// Result is a fully transformed file.
type Result struct {
	Content  []byte
	Lines    int
	Changed  int
	Warnings []Warning
}

// LineError reports the assignment that stopped a transform.
type LineError struct {
	Line int
	Key  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Key, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Transform rewrites the values of every assignment in content. Encrypt
// only touches untagged values the policy selects; Decrypt only touches
// tagged ones.
// Any decode failure other than an empty payload aborts the whole file, so
// no partially decrypted output is ever returned.
func Transform(content []byte, dir Direction, c ValueCodec, p Policy) (*Result, error) {
	f := envfile.Parse(content)
	res := &Result{Lines: len(f.Lines)}

	for i, line := range f.Lines {
		if line.Kind != envfile.Assignment {
			continue
		}

		value, warn, err := transformValue(line, dir, c, p)
		if err != nil {
			return nil, &LineError{Line: i + 1, Key: line.Key, Err: err}
		}
		if warn != "" {
			res.Warnings = append(res.Warnings, Warning{Line: i + 1, Key: line.Key, Message: warn})
		}
		if value != line.Value {
			f.Lines[i] = line.WithValue(value)
			res.Changed++
		}
	}

	res.Content = f.Bytes()
	return res, nil
}

func transformValue(line envfile.Line, dir Direction, c ValueCodec, p Policy) (string, string, error) {
	value := line.Value
	switch dir {
	case Encrypt:
		if codec.IsEncoded(value) || !p.Encrypts(line.Key, value) {
			return value, "", nil
		}
		encoded, err := c.Encode(value)
		return encoded, "", err

	case Decrypt:
		if !codec.IsEncoded(value) {
			return value, "", nil
		}
		plain, err := c.Decode(value)
		if errors.Is(err, kerrors.ErrEmptyPayload) {
			return "", "encrypted value has no payload, writing an empty value", nil
		}
		if err != nil {
			return "", "", err
		}
		if plain == "" {
			return "", "decrypted value is empty", nil
		}
		return plain, "", nil
	}

	return "", "", fmt.Errorf("unknown direction %d", dir)
}
