package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mash/ansispan/symwalk"
)

var (
	renderOutDir string
	renderWatch  bool
	renderExts   []string
)

var renderCmd = &cobra.Command{
	Use:   "render [file|dir]...",
	Short: "Render files or stdin",
	Long: "Render reads terminal output from stdin, or from the given files. Directories are\n" +
		"searched recursively for log files, following symlinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		asm, err := cfg.assembler()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			if renderWatch {
				return errors.New("--watch needs at least one file or directory")
			}
			if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				return errors.New("refusing to read from an interactive terminal; pass a file or pipe input")
			}
			return renderStream(cmd.InOrStdin(), cmd.OutOrStdout(), asm)
		}

		files, err := symwalk.Collect(args, symwalk.Options{Extensions: renderExts})
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files found in %s", strings.Join(args, ", "))
		}
		r := &fileRenderer{asm: asm, outDir: renderOutDir, stdout: cmd.OutOrStdout()}
		if renderOutDir != "" {
			if r.outputs, err = outputPaths(args, files, renderOutDir, asm.Ext()); err != nil {
				return err
			}
		}
		for _, path := range files {
			if err := r.render(path); err != nil {
				return err
			}
		}
		if !renderWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger.Info("watching for changes", "files", len(files))
		return watchFiles(ctx, files, r.render)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutDir, "out-dir", "o", "", "write one output file per input into this directory")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "re-render files when they change")
	renderCmd.Flags().StringSliceVar(&renderExts, "ext", nil, "extensions collected from directories (default .ansi,.log,.out,.txt)")
}

func renderStream(r io.Reader, w io.Writer, asm Assembler) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return asm.Write(w, asm.Render(string(data)))
}

type fileRenderer struct {
	asm     Assembler
	outDir  string
	outputs map[string]string // input path -> output path under outDir
	stdout  io.Writer
}

// outputPaths maps every input to its output file under outDir. Inputs found
// by walking a directory keep their path relative to that directory, file
// arguments keep only their base name. Two inputs sharing an output is an error.
func outputPaths(roots, files []string, outDir, ext string) (map[string]string, error) {
	outputs := make(map[string]string, len(files))
	owner := make(map[string]string, len(files))
	for _, path := range files {
		rel := relativeToRoot(roots, path)
		out := filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
		if prev, ok := owner[out]; ok {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, path, out)
		}
		owner[out] = path
		outputs[path] = out
	}
	return outputs, nil
}

// relativeToRoot returns path relative to the deepest root containing it, or
// its base name when path is itself a root.
func relativeToRoot(roots []string, path string) string {
	best := filepath.Base(path)
	found := false
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if !found || len(rel) < len(best) {
			best, found = rel, true
		}
	}
	return best
}

func (r *fileRenderer) outputPath(path string) string {
	if out, ok := r.outputs[path]; ok {
		return out
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(r.outDir, base+r.asm.Ext())
}

// render renders one input file, either next to the others in outDir or to stdout.
func (r *fileRenderer) render(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	nodes := r.asm.Render(string(data))

	if r.outDir == "" {
		return r.asm.Write(r.stdout, nodes)
	}

	out := r.outputPath(path)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(out), err)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := r.asm.Write(f, nodes); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	logger.Debug("rendered", "input", path, "output", out, "nodes", len(nodes))
	return nil
}
