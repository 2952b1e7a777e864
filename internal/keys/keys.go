// Package keys resolves the shared passphrase from an ordered list of
// sources: an explicit value, an environment variable, then a local key file.
package keys

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

// Key is a resolved passphrase. It formats as "[redacted]" so it cannot end
// up in log output by accident.
type Key []byte

func (Key) String() string { return "[redacted]" }

// Strategy is one place a key may come from. Lookup returns ok=false when
// the source has nothing to offer.
type Strategy interface {
	Name() string
	Lookup() (value string, ok bool, err error)
}

// Explicit is a key passed in directly, typically a command-line argument.
type Explicit struct {
	Value string
}

func (Explicit) Name() string { return "argument" }

func (e Explicit) Lookup() (string, bool, error) {
	return e.Value, e.Value != "", nil
}

// Env reads a process environment variable.
type Env struct {
	Variable string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (e Env) Name() string { return "environment variable " + e.Variable }

func (e Env) Lookup() (string, bool, error) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(e.Variable)
	return v, ok && v != "", nil
}

// File reads a local, unversioned key file holding a VARIABLE=value line.
type File struct {
	Path     string
	Variable string
}

func (f File) Name() string { return "key file " + f.Path }

func (f File) Lookup() (string, bool, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key file %s: %w", f.Path, err)
	}
	v := ParseKeyFile(data, f.Variable)
	return v, v != "", nil
}

// ParseKeyFile extracts the key from key file contents. The line for
// variable wins; otherwise the first non-comment line is used. The
// "variable=" prefix, trailing whitespace and one layer of quotes are removed.
func ParseKeyFile(data []byte, variable string) string {
	var fallback string
	prefix := variable + "="

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		if variable != "" && strings.HasPrefix(line, prefix) {
			return unquote(strings.TrimPrefix(line, prefix))
		}
		if fallback == "" {
			fallback = line
		}
	}
	return unquote(fallback)
}

func unquote(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Resolver tries each strategy in order.
type Resolver struct {
	Strategies []Strategy
}

// NewResolver builds the standard chain: explicit value, environment
// variable, key file.
func NewResolver(explicit, variable, keyFile string) Resolver {
	r := Resolver{Strategies: []Strategy{Explicit{Value: explicit}}}
	if variable != "" {
		r.Strategies = append(r.Strategies, Env{Variable: variable})
	}
	if keyFile != "" {
		r.Strategies = append(r.Strategies, File{Path: keyFile, Variable: variable})
	}
	return r
}

// Resolve returns the first non-empty key and the name of the source it came
// from. It returns ErrNoKeyFound when every source comes up empty.
func (r Resolver) Resolve() (Key, string, error) {
	for _, s := range r.Strategies {
		v, ok, err := s.Lookup()
		if err != nil {
			return nil, "", err
		}
		if ok {
			return Key(v), s.Name(), nil
		}
	}

	names := make([]string, len(r.Strategies))
	for i, s := range r.Strategies {
		names[i] = s.Name()
	}
	return nil, "", fmt.Errorf("%w (tried %s)", kerrors.ErrNoKeyFound, strings.Join(names, ", "))
}
