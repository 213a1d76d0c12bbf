package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mash/ansispan/ansi"
	"github.com/mash/ansispan/symwalk"
)

func TestRenderStream(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("02hello\b\b goodbye")
	if err := renderStream(in, &out, Assembler{Format: FormatText}); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "02hel goodbye"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileRenderer_OutDir(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "build.log")
	if err := os.WriteFile(input, []byte("ok \x1b[32mpass\x1b[0m\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(tmpDir, "out", "nested")

	r := &fileRenderer{asm: Assembler{Format: FormatHTML}, outDir: outDir}
	if err := r.render(input); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "build.html"))
	if err != nil {
		t.Fatal(err)
	}
	want := "<code><span>ok </span><span style=\"color: rgb(0, 187, 0);\">pass</span>\n</code>"
	if got := string(data); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileRenderer_OutDirKeepsLayout(t *testing.T) {
	tmpDir := t.TempDir()
	logs := filepath.Join(tmpDir, "logs")
	for _, dir := range []string{"a", "b"} {
		os.MkdirAll(filepath.Join(logs, dir), 0o755)
		os.WriteFile(filepath.Join(logs, dir, "build.log"), []byte(dir), 0o644)
	}
	outDir := filepath.Join(tmpDir, "out")

	files, err := symwalk.Collect([]string{logs}, symwalk.Options{})
	if err != nil {
		t.Fatal(err)
	}
	outputs, err := outputPaths([]string{logs}, files, outDir, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	r := &fileRenderer{asm: Assembler{Format: FormatText}, outDir: outDir, outputs: outputs}
	for _, f := range files {
		if err := r.render(f); err != nil {
			t.Fatal(err)
		}
	}

	for _, dir := range []string{"a", "b"} {
		data, err := os.ReadFile(filepath.Join(outDir, dir, "build.txt"))
		if err != nil {
			t.Fatal(err)
		}
		if got := string(data); got != dir {
			t.Errorf("%s: got %q, want %q", dir, got, dir)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	root := filepath.Join("work", "logs")
	tests := []struct {
		name    string
		roots   []string
		files   []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "walked root keeps subdirectories",
			roots: []string{root},
			files: []string{filepath.Join(root, "a", "build.log"), filepath.Join(root, "b", "build.log")},
			want: map[string]string{
				filepath.Join(root, "a", "build.log"): filepath.Join("out", "a", "build.html"),
				filepath.Join(root, "b", "build.log"): filepath.Join("out", "b", "build.html"),
			},
		},
		{
			name:  "file argument uses base name",
			roots: []string{filepath.Join("ci", "run.ansi")},
			files: []string{filepath.Join("ci", "run.ansi")},
			want:  map[string]string{filepath.Join("ci", "run.ansi"): filepath.Join("out", "run.html")},
		},
		{
			name:    "same name from two roots",
			roots:   []string{"a", "b"},
			files:   []string{filepath.Join("a", "build.log"), filepath.Join("b", "build.log")},
			wantErr: true,
		},
		{
			name:    "same stem different extension",
			roots:   []string{root},
			files:   []string{filepath.Join(root, "x.log"), filepath.Join(root, "x.txt")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.roots, tt.files, "out", ".html")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected collision error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileRenderer_Stdout(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.txt")
	b := filepath.Join(tmpDir, "b.txt")
	os.WriteFile(a, []byte("first\r1st"), 0o644)
	os.WriteFile(b, []byte("second"), 0o644)

	var out bytes.Buffer
	r := &fileRenderer{asm: Assembler{Format: FormatText}, stdout: &out}
	for _, p := range []string{a, b} {
		if err := r.render(p); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := out.String(), "1stst"+"second"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileRenderer_MissingFile(t *testing.T) {
	r := &fileRenderer{asm: Assembler{Format: FormatText}, stdout: &bytes.Buffer{}}
	if err := r.render(filepath.Join(t.TempDir(), "missing.log")); err == nil {
		t.Fatal("expected error")
	}
}

func TestConfig(t *testing.T) {
	c := config{Linkify: true, Classes: true, StripSequences: true, Format: "json", Terminator: "bel"}
	opts := c.options()
	if !opts.Linkify || opts.Serialization != ansi.NamedClasses || !opts.StripUnknownSequences {
		t.Errorf("unexpected options %+v", opts)
	}
	asm, err := c.assembler()
	if err != nil {
		t.Fatal(err)
	}
	if asm.Format != FormatJSON || asm.Terminator != TerminatorBEL || asm.Ext() != ".json" {
		t.Errorf("unexpected assembler %+v", asm)
	}
	if asm.Options != opts {
		t.Errorf("assembler options %+v, want %+v", asm.Options, opts)
	}
	if _, err := (config{Format: "pdf"}).assembler(); err == nil {
		t.Error("expected error for pdf")
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("ANSISPAN_TEST_BOOL", "true")
	t.Setenv("ANSISPAN_TEST_BAD", "sometimes")
	t.Setenv("ANSISPAN_TEST_STR", "json")

	if !envBool("ANSISPAN_TEST_BOOL", false) {
		t.Error("expected true")
	}
	if !envBool("ANSISPAN_TEST_BAD", true) {
		t.Error("invalid value should keep default")
	}
	if envBool("ANSISPAN_TEST_UNSET", false) {
		t.Error("unset should keep default")
	}
	if got := envString("ANSISPAN_TEST_STR", "html"); got != "json" {
		t.Errorf("got %q", got)
	}
	if got := envString("ANSISPAN_TEST_UNSET", "html"); got != "html" {
		t.Errorf("got %q", got)
	}
}
