package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errPasswordRejected = errors.New("password does not match")

var verifyAdminCmd = &cobra.Command{
	Use:   "verify-admin",
	Short: "Check a password against the stored administrator hash",
	Args:  cobra.NoArgs,
	RunE:  runVerifyAdmin,
}

func init() {
	rootCmd.AddCommand(verifyAdminCmd)
}

func runVerifyAdmin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := newService(cmd, cfg)
	if err != nil {
		return err
	}

	ok, err := svc.VerifyAdmin(cmd.Context())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w for administrator %q", errPasswordRejected, cfg.Admin.Username)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Password matches administrator %q\n", cfg.Admin.Username)
	return nil
}
