package cmd

import (
	"fmt"

	"github.com/norahairline/norahairline/internal/bootstrap"
	"github.com/spf13/cobra"
)

var sampleCatalog bool

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the database schema and the first administrator",
	Long: `Creates the admins, products, orders and reviews tables if they do not
exist, then inserts the administrator named by ADMIN_USERNAME (default "admin").

The password is taken from ADMIN_PASSWORD, or prompted for twice without
echo when it is not set. Running bootstrap again for the same username fails
and leaves the existing administrator untouched.`,
	Args: cobra.NoArgs,
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)

	bootstrapCmd.Flags().BoolVar(&sampleCatalog, "sample-catalog", false, "Also create a small demo product catalog")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔧 Bootstrapping Nora Hair Line database...")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := newService(cmd, cfg)
	if err != nil {
		return err
	}

	res, err := svc.Bootstrap(cmd.Context(), bootstrap.Options{SampleCatalog: sampleCatalog})
	if err != nil {
		return err
	}

	printResult(cmd, res)
	return nil
}

func printResult(cmd *cobra.Command, res *bootstrap.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Administrator %q created (id %d) in %s\n", res.Username, res.AdminID, res.Location)
	if res.Products > 0 {
		fmt.Fprintf(out, "📦 %d sample products added\n", res.Products)
	}
}
