package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmahebert/eckit/config"
	"github.com/fmahebert/eckit/pkg/buffer"
	"github.com/fmahebert/eckit/pkg/compressor"
	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
)

func TestRenderValuesText(t *testing.T) {
	values := []evaluator.Value{
		evaluator.NewInteger(1),
		evaluator.NewString("a"),
	}
	out, err := renderValues(values, "text", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\na\n" {
		t.Errorf("got %q", out)
	}
}

func TestRenderValuesJSON(t *testing.T) {
	values := []evaluator.Value{
		evaluator.NewList(evaluator.NewInteger(1), evaluator.NewInteger(2)),
	}
	out, err := renderValues(values, "json", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[1,2]\n" {
		t.Errorf("got %q", out)
	}
}

func TestRenderValuesYAML(t *testing.T) {
	values := []evaluator.Value{evaluator.NewInteger(42)}
	out, err := renderValues(values, "yaml", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n" {
		t.Errorf("got %q", out)
	}
}

func TestRenderValuesLocale(t *testing.T) {
	values := []evaluator.Value{evaluator.NewInteger(1234567)}
	out, err := renderValues(values, "text", "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "1,234,567") {
		t.Errorf("got %q", out)
	}
}

func TestWriteOutputPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeOutput(path, "hello\n", "none"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "hello\n" {
		t.Errorf("got %q", b)
	}
}

func TestWriteOutputCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gz")
	content := strings.Repeat("result line\n", 50)
	if err := writeOutput(path, content, "gzip"); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	c, _ := compressor.Lookup("gzip")
	restored := buffer.New(0)
	if _, err := c.Uncompress(b, restored); err != nil {
		t.Fatalf("uncompress: %v", err)
	}
	if string(restored.Bytes()) != content {
		t.Error("round trip through output file lost data")
	}
}

func TestWriteOutputUnknownCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	if err := writeOutput(path, "x", "lz9"); err == nil {
		t.Error("expected error for unknown codec")
	}
}

func TestRunSource(t *testing.T) {
	cfg := config.Defaults()
	if code := runSource("<test>", "add(1, 2)", cfg); code != 0 {
		t.Errorf("exit code %d", code)
	}
	if code := runSource("<test>", "add(1,", cfg); code != 1 {
		t.Errorf("exit code %d for parse error", code)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.xpr")
	bad := filepath.Join(dir, "bad.xpr")
	os.WriteFile(good, []byte("add(1, 2)\n"), 0o644)
	os.WriteFile(bad, []byte("add(1,\n"), 0o644)

	if code := checkFiles([]string{good}); code != 0 {
		t.Errorf("good file: exit %d", code)
	}
	if code := checkFiles([]string{good, bad}); code != 1 {
		t.Errorf("bad file: exit %d", code)
	}
	if code := checkFiles([]string{filepath.Join(dir, "missing.xpr")}); code != 2 {
		t.Errorf("missing file: exit %d", code)
	}
}
