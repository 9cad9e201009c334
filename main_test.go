package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/ByLCY/qrcanvas/config"
)

func TestRunSingleSVG(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Format = "svg"
	opts := options{
		input:  "examples/bill.qrc",
		output: filepath.Join(dir, "bill.svg"),
		data:   `{"number":"7","creditor":{"name":"Robert Schneider AG","iban":"CH44"},"currency":"CHF","amount":"10.00"}`,
		debug:  filepath.Join(dir, "debug", "scene.json"),
	}
	if err := run(context.Background(), opts, cfg, hclog.NewNullLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(opts.output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{"<svg width=\"148mm\" height=\"105mm\"", "Robert Schneider AG", "Amount CHF 10.00"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("svg lacks %q", want)
		}
	}
	if _, err := os.Stat(opts.debug); err != nil {
		t.Fatalf("debug json: %v", err)
	}
}

func TestRunBatchPDF(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Parallelism = 2
	opts := options{
		input:    "examples/bill.qrc",
		output:   dir,
		batchDir: "examples/data",
	}
	if err := run(context.Background(), opts, cfg, hclog.NewNullLogger()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"0001.pdf", "0002.pdf"} {
		out, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF-1.4")) || !bytes.HasSuffix(out, []byte("%%EOF\n")) {
			t.Fatalf("%s is not a complete PDF file", name)
		}
	}
}

func TestRunErrors(t *testing.T) {
	cfg := config.Default()
	logger := hclog.NewNullLogger()
	if err := run(context.Background(), options{input: "missing.qrc"}, cfg, logger); err == nil {
		t.Fatalf("expected error for missing script")
	}
	opts := options{input: "examples/bill.qrc", data: "{", output: filepath.Join(t.TempDir(), "x.pdf")}
	if err := run(context.Background(), opts, cfg, logger); err == nil {
		t.Fatalf("expected error for invalid data")
	}
	if _, err := newRenderer("gif", 0, 0); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
