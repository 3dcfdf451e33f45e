package cmd

import (
	"errors"
	"fmt"

	"github.com/norahairline/norahairline/internal/bootstrap"
	"github.com/norahairline/norahairline/internal/config"
	"github.com/norahairline/norahairline/internal/prompt"
	"github.com/spf13/cobra"
)

var errResetDeclined = errors.New("reset declined")

var (
	assumeYes        bool
	resetWithCatalog bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database and bootstrap a fresh one",
	Long: `Deletes every admin, product, order and review, then runs bootstrap.

With SQLite the database file and its journal files are removed. With MySQL
the four tables are dropped. The administrator password is resolved before
anything is deleted, so a mismatched prompt leaves the database intact.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	resetCmd.Flags().BoolVar(&resetWithCatalog, "sample-catalog", false, "Also create a small demo product catalog")
}

func runReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	if !assumeYes {
		question := fmt.Sprintf("⚠️  This permanently deletes all data in %s. Continue?", cfg.DB.Location())
		ok, err := p.Confirm(cmd.Context(), question)
		if err != nil {
			if errors.Is(err, prompt.ErrNoTerminal) {
				return fmt.Errorf("%w: stdin is not a terminal, pass --yes to reset", config.ErrConfiguration)
			}
			return fmt.Errorf("%w: %v", bootstrap.ErrInterrupted, err)
		}
		if !ok {
			return errResetDeclined
		}
	}

	fmt.Fprintln(out, "♻️  Resetting Nora Hair Line database...")

	svc, err := bootstrap.NewService(cfg, p, out)
	if err != nil {
		return err
	}

	res, err := svc.Reset(cmd.Context(), bootstrap.Options{SampleCatalog: resetWithCatalog})
	if err != nil {
		return err
	}

	printResult(cmd, res)
	return nil
}
