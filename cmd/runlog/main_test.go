package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/five82/runlog/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCmd_Stdin(t *testing.T) {
	out, err := execute(t, "##[warning]careful\nplain", "parse", "--color", "never")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if n := gjson.Get(out, "#").Int(); n != 2 {
		t.Fatalf("lines = %d, want 2 (%s)", n, out)
	}
}

func TestParseCmd_Count(t *testing.T) {
	out, err := execute(t, "foo\nFOO bar\nbaz", "parse", "-s", "foo", "--count")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("count = %q, want 2", out)
	}
}

func TestParseCmd_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("pretty = true\ncolor = \"always\"\ntimestamps = true\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	logPath := filepath.Join(dir, "job.log")
	if err := os.WriteFile(logPath, []byte("2024-01-15T00:14:43Z hello\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := execute(t, "", "--config", cfgPath, "parse", logPath,
		"--pretty=false", "--color", "never", "--no-timestamps")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if strings.Count(out, "\n") != 1 || strings.Contains(out, "\x1b[") {
		t.Fatalf("output not compact and plain: %q", out)
	}
	if gjson.Get(out, "0.ts").Exists() {
		t.Fatalf("ts present with --no-timestamps: %s", out)
	}

	out, err = execute(t, "", "--config", cfgPath, "parse", logPath)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if !strings.Contains(out, "\x1b[") || strings.Count(out, "\n") < 2 {
		t.Fatalf("config pretty/color ignored: %q", out)
	}
}

func TestParseCmd_InvalidFlags(t *testing.T) {
	tests := [][]string{
		{"parse", "--color", "sometimes"},
		{"parse", "--style-scope", "page"},
		{"parse", "a.log", "b.log"},
	}
	for _, args := range tests {
		if _, err := execute(t, "x", args...); err == nil {
			t.Fatalf("%v returned nil error", args)
		}
	}
}

func TestViewCmd_NeedsTerminal(t *testing.T) {
	// Test binaries write stdout to a pipe or file.
	_, err := execute(t, "", "view", "job.log")
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Fatalf("view error = %v, want terminal error", err)
	}
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	tests := []struct {
		mode string
		want bool
	}{
		{config.ColorAlways, true},
		{config.ColorNever, false},
		{config.ColorAuto, false},
	}
	for _, tt := range tests {
		if got := useColor(tt.mode, f); got != tt.want {
			t.Fatalf("useColor(%q) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
