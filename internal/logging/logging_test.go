package logger

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestLogger_Levels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name        string
		logger      Logger
		wantInfo    bool
		wantDebug   bool
		wantWarn    bool
		wantErrorLn bool
	}{
		{name: "quiet", logger: Logger{}},
		{name: "verbose", logger: Logger{Verbose: true}, wantInfo: true, wantWarn: true},
		{name: "debug", logger: Logger{Debug: true}, wantInfo: true, wantDebug: true, wantWarn: true, wantErrorLn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			l := tt.logger
			l.Out = &out
			l.Err = &errOut

			l.Infof("info %d", 1)
			l.Debugf("debug %d", 2)
			l.Warnf("warn %d", 3)
			l.Errorf("error %d", 4)

			if got := strings.Contains(out.String(), "[info] info 1"); got != tt.wantInfo {
				t.Errorf("info shown = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out.String(), "[debug] debug 2"); got != tt.wantDebug {
				t.Errorf("debug shown = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(errOut.String(), "[warn] warn 3"); got != tt.wantWarn {
				t.Errorf("warn shown = %v, want %v", got, tt.wantWarn)
			}
			if got := strings.Contains(errOut.String(), "[error] error 4"); got != tt.wantErrorLn {
				t.Errorf("error shown = %v, want %v", got, tt.wantErrorLn)
			}
		})
	}
}

func TestLogger_WarnfAlways(t *testing.T) {
	color.NoColor = true
	var errOut bytes.Buffer
	l := Logger{Err: &errOut}

	l.WarnfAlways("empty value for %s", "API_KEY")

	if !strings.Contains(errOut.String(), "[warn] empty value for API_KEY") {
		t.Errorf("Expected warning in output, got: %q", errOut.String())
	}
}

func TestLogger_ErrorfAndReturn(t *testing.T) {
	err := Logger{}.ErrorfAndReturn("failed on %s", "web")
	if err == nil || err.Error() != "failed on web" {
		t.Errorf("Expected 'failed on web', got: %v", err)
	}
}

func TestLogger_ErrorfAndReturnWraps(t *testing.T) {
	color.NoColor = true
	var errOut bytes.Buffer
	l := Logger{Debug: true, Err: &errOut}

	err := l.ErrorfAndReturn("failed to read key: %w", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got: %v", err)
	}
	if got := errOut.String(); strings.Contains(got, "%!w") || !strings.Contains(got, "failed to read key: file does not exist") {
		t.Errorf("Unexpected log line: %q", got)
	}
}
