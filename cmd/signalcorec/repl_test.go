package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"signalcore/internal/compiler"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not open pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestHandleReplCommandFindsFunctionVarAndStruct(t *testing.T) {
	res := compiler.Compile(demoNamespace())
	if res.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", res.Diags.EmitAllToString())
	}

	out := captureStdout(t, func() { handleReplCommand(res.Program, "func double") })
	if !bytes.Contains([]byte(out), []byte("double")) {
		t.Errorf("expected func lookup to mention double, got %q", out)
	}

	out = captureStdout(t, func() { handleReplCommand(res.Program, "var tuning") })
	if !bytes.Contains([]byte(out), []byte("external=true")) {
		t.Errorf("expected tuning to report as external, got %q", out)
	}

	out = captureStdout(t, func() { handleReplCommand(res.Program, "func missing") })
	if !bytes.Contains([]byte(out), []byte("no function named")) {
		t.Errorf("expected a not-found message, got %q", out)
	}

	out = captureStdout(t, func() { handleReplCommand(res.Program, "garbled") })
	if !bytes.Contains([]byte(out), []byte("usage:")) {
		t.Errorf("expected a usage message for a malformed command, got %q", out)
	}
}
