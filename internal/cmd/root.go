package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/norahairline/norahairline/internal/auth"
	"github.com/norahairline/norahairline/internal/bootstrap"
	"github.com/norahairline/norahairline/internal/config"
	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/prompt"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitStorage     = 2
	ExitInterrupted = 130
)

var verbose bool

// newPrompter is replaced in tests.
var newPrompter = func(cmd *cobra.Command) prompt.Prompter {
	return prompt.NewTerminal(os.Stdin, cmd.ErrOrStderr())
}

var rootCmd = &cobra.Command{
	Use:   "nora",
	Short: "Nora Hair Line store administration",
	Long: `nora prepares and maintains the Nora Hair Line storefront database.

Use "nora bootstrap" once to create the schema and the first administrator,
and "nora reset" to wipe every product, order, review and admin and start over.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errorMessage(err))
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	var (
		pathErr *fs.PathError
		netErr  *net.OpError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, bootstrap.ErrInterrupted), errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, database.ErrStorageUnavailable),
		errors.Is(err, bootstrap.ErrResetFailed),
		errors.Is(err, auth.ErrInvalidHashFormat),
		errors.As(err, &pathErr),
		errors.As(err, &netErr):
		return ExitStorage
	}
	return ExitFailure
}

// errorMessage renders err for the operator on a single line.
func errorMessage(err error) string {
	if errors.Is(err, bootstrap.ErrPasswordMismatch) {
		return "Passwords do not match"
	}
	return strings.ReplaceAll(err.Error(), "\n", " ")
}

// loadConfig reads configuration and installs the slog default for this run.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	setupLogging(cmd.ErrOrStderr(), cfg.Log.Level)
	if cfg.SecretKey == "" {
		slog.Warn("SECRET_KEY is not set; the web application will refuse to start without it")
	}
	return cfg, nil
}

func setupLogging(w io.Writer, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}

// newService wires the bootstrap service to the terminal.
func newService(cmd *cobra.Command, cfg *config.Config) (*bootstrap.Service, error) {
	return bootstrap.NewService(cfg, newPrompter(cmd), cmd.OutOrStdout())
}
