package codec

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

const passEnv = "ENVCRYPT_TOOL_PASS"

// ToolCipher shells out to the openssl binary. It reads and writes the same
// bytes as NativeCipher.
type ToolCipher struct {
	Path       string
	Iterations int
}

// NewToolCipher locates openssl (on PATH when path is empty). The lookup
// happens here so a missing tool fails the run before any file is touched.
func NewToolCipher(path string, iterations int) (*ToolCipher, error) {
	if path == "" {
		path = "openssl"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrToolUnavailable, path, err)
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &ToolCipher{Path: resolved, Iterations: iterations}, nil
}

func (*ToolCipher) Name() string { return "openssl" }

func (c *ToolCipher) args(decrypt bool) []string {
	args := []string{"enc", "-aes-256-cbc", "-pbkdf2", "-iter", strconv.Itoa(c.Iterations), "-md", "sha256", "-salt"}
	if decrypt {
		args = append(args, "-d")
	}
	return append(args, "-pass", "env:"+passEnv)
}

func (c *ToolCipher) run(input, passphrase []byte, decrypt bool) ([]byte, []byte, error) {
	cmd := exec.Command(c.Path, c.args(decrypt)...)
	cmd.Env = append(os.Environ(), passEnv+"="+string(passphrase))
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

func (c *ToolCipher) Encrypt(plaintext, passphrase []byte) ([]byte, error) {
	out, stderr, err := c.run(plaintext, passphrase, false)
	if err != nil {
		return nil, fmt.Errorf("openssl encrypt failed: %v: %s", err, bytes.TrimSpace(stderr))
	}
	return out, nil
}

func (c *ToolCipher) Decrypt(ciphertext, passphrase []byte) ([]byte, error) {
	out, _, err := c.run(ciphertext, passphrase, true)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: openssl rejected the ciphertext", kerrors.ErrAuthentication)
		}
		return nil, fmt.Errorf("failed to run openssl: %w", err)
	}
	return checkPlaintext(out)
}
