package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/PolarWolf314/envcrypt/internal/codec"
	kerrors "github.com/PolarWolf314/envcrypt/internal/errors"
)

func testCodec(key string) codec.Codec {
	return codec.Codec{Cipher: codec.NativeCipher{}, Key: []byte(key)}
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestTransform_EndToEnd(t *testing.T) {
	source := "DB_URL=postgres://u:p@host/db\nDEBUG=false\n"

	enc, err := Transform([]byte(source), Encrypt, testCodec("s3cret"), Policy{})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	lines := splitLines(string(enc.Content))
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), enc.Content)
	}
	if !strings.HasPrefix(lines[0], "DB_URL=ENCRYPTED:") {
		t.Errorf("Expected DB_URL to be encrypted, got %q", lines[0])
	}
	if lines[1] != "DEBUG=false" {
		t.Errorf("Expected DEBUG=false unchanged, got %q", lines[1])
	}

	dec, err := Transform(enc.Content, Decrypt, testCodec("s3cret"), Policy{})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(dec.Content) != source {
		t.Errorf("Decrypt output = %q, want %q", dec.Content, source)
	}

	_, err = Transform(enc.Content, Decrypt, testCodec("wrong"), Policy{})
	if !errors.Is(err, kerrors.ErrAuthentication) {
		t.Fatalf("Expected ErrAuthentication with wrong key, got %v", err)
	}
	var lineErr *LineError
	if !errors.As(err, &lineErr) || lineErr.Key != "DB_URL" || lineErr.Line != 1 {
		t.Errorf("Expected LineError for DB_URL on line 1, got %#v", err)
	}
}

func TestTransform_PreservesStructure(t *testing.T) {
	source := "# Database\n\nDB_URL=postgres://x\n   # indented comment\nnot an assignment\nEMPTY=\nTOKEN=abc=def\n"

	res, err := Transform([]byte(source), Encrypt, testCodec("k"), Policy{})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	in := splitLines(source)
	out := splitLines(string(res.Content))
	if len(in) != len(out) {
		t.Fatalf("Line count changed: %d -> %d", len(in), len(out))
	}

	for i := range in {
		inKey, _, inAssign := strings.Cut(in[i], "=")
		isComment := strings.HasPrefix(strings.TrimSpace(in[i]), "#")
		if !inAssign || isComment || in[i] == "EMPTY=" {
			if in[i] != out[i] {
				t.Errorf("Line %d changed: %q -> %q", i+1, in[i], out[i])
			}
			continue
		}
		if !strings.HasPrefix(out[i], inKey+"=ENCRYPTED:") {
			t.Errorf("Line %d not encrypted in place: %q", i+1, out[i])
		}
	}

	if res.Changed != 2 {
		t.Errorf("Expected 2 changed lines, got %d", res.Changed)
	}
	if res.Lines != len(in) {
		t.Errorf("Expected Lines=%d, got %d", len(in), res.Lines)
	}
}

func TestTransform_EncryptSkipsTaggedValues(t *testing.T) {
	source := "A=ENCRYPTED:already\nB=plain\n"

	res, err := Transform([]byte(source), Encrypt, testCodec("k"), Policy{})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	lines := splitLines(string(res.Content))
	if lines[0] != "A=ENCRYPTED:already" {
		t.Errorf("Expected tagged value untouched, got %q", lines[0])
	}
	if res.Changed != 1 {
		t.Errorf("Expected 1 changed line, got %d", res.Changed)
	}
}

func TestTransform_DecryptPassesThroughLegacyPlaintext(t *testing.T) {
	c := testCodec("k")
	encoded, err := c.Encode("secret")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	source := "LEGACY=plain\nNEW=" + encoded + "\n"

	res, err := Transform([]byte(source), Decrypt, c, Policy{})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(res.Content) != "LEGACY=plain\nNEW=secret\n" {
		t.Errorf("Unexpected output %q", res.Content)
	}
}

func TestTransform_EmptyPayloadWarns(t *testing.T) {
	res, err := Transform([]byte("KEY=ENCRYPTED:\nOTHER=x\n"), Decrypt, testCodec("k"), Policy{})
	if err != nil {
		t.Fatalf("Expected empty payload to be tolerated, got %v", err)
	}
	if string(res.Content) != "KEY=\nOTHER=x\n" {
		t.Errorf("Unexpected output %q", res.Content)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Key != "KEY" || res.Warnings[0].Line != 1 {
		t.Errorf("Expected one warning for KEY on line 1, got %+v", res.Warnings)
	}
}

func TestTransform_InvalidEncodingStops(t *testing.T) {
	_, err := Transform([]byte("A=ENCRYPTED:%%%\n"), Decrypt, testCodec("k"), Policy{})
	if !errors.Is(err, kerrors.ErrInvalidEncoding) {
		t.Errorf("Expected ErrInvalidEncoding, got %v", err)
	}
}

// emptyCodec decodes everything to the empty string.
type emptyCodec struct{}

func (emptyCodec) Encode(string) (string, error) { return "", nil }
func (emptyCodec) Decode(string) (string, error) { return "", nil }

func TestTransform_EmptyDecryptedValueWarns(t *testing.T) {
	res, err := Transform([]byte("KEY=ENCRYPTED:abcd\n"), Decrypt, emptyCodec{}, Policy{})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(res.Content) != "KEY=\n" {
		t.Errorf("Unexpected output %q", res.Content)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("Expected 1 warning, got %d", len(res.Warnings))
	}
}

func TestTransform_PreservesCRLF(t *testing.T) {
	c := testCodec("k")
	source := "A=1\r\n# note\r\nB=2\r\n"

	enc, err := Transform([]byte(source), Encrypt, c, Policy{})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if strings.Count(string(enc.Content), "\r\n") != 3 {
		t.Errorf("Expected CRLF terminators kept, got %q", enc.Content)
	}

	dec, err := Transform(enc.Content, Decrypt, c, Policy{})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(dec.Content) != source {
		t.Errorf("Round trip = %q, want %q", dec.Content, source)
	}
}

func TestDirection_String(t *testing.T) {
	if Encrypt.String() != "encrypt" || Decrypt.String() != "decrypt" {
		t.Errorf("Unexpected direction names %q %q", Encrypt, Decrypt)
	}
}
