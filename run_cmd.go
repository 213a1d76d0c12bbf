package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command in a pseudo-terminal and render its output",
	Long: "Run starts the command attached to a pseudo-terminal so that it emits colours,\n" +
		"waits for it to exit and renders everything it printed. The command's exit\n" +
		"status becomes ansispan's exit status.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asm, err := cfg.assembler()
		if err != nil {
			return err
		}
		output, exitCode, err := captureCommand(cmd.Context(), args)
		if err != nil {
			return err
		}
		if err := asm.Write(cmd.OutOrStdout(), asm.Render(string(output))); err != nil {
			return err
		}
		if exitCode != 0 {
			return &exitCodeError{code: exitCode}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// captureCommand runs argv under a pty and returns everything it wrote.
func captureCommand(ctx context.Context, argv []string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, 0, fmt.Errorf("start pty: %w", err)
	}
	defer ptmx.Close() //nolint:errcheck

	if term.IsTerminal(int(os.Stdin.Fd())) {
		if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
			logger.Debug("inherit size", "err", err)
		}
	}
	stop := forwardSignals(cmd)
	defer stop()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, ptmx); err != nil && !errors.Is(err, syscall.EIO) {
		return nil, 0, fmt.Errorf("read pty: %w", err)
	}

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, 0, fmt.Errorf("wait: %w", err)
		}
	}
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	logger.Debug("command finished", "argv", argv, "exit", exitCode, "bytes", buf.Len())
	return buf.Bytes(), exitCode, nil
}

func forwardSignals(cmd *exec.Cmd) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		for sig := range ch {
			if cmd.Process != nil {
				cmd.Process.Signal(sig) //nolint:errcheck
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
