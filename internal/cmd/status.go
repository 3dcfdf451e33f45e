package cmd

import (
	"fmt"
	"strings"

	"github.com/norahairline/norahairline/internal/database"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and administrators",
	Long: `Reports how many rows each table holds and which administrators exist.
The database is never created by this command.`,
	Args: cobra.NoArgs,
	RunE: showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := newService(cmd, cfg)
	if err != nil {
		return err
	}

	st, err := svc.Status(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "🔍 %s database at %s\n", st.Driver, st.Location)
	fmt.Fprintln(out, strings.Repeat("─", 40))
	for _, table := range database.Tables {
		fmt.Fprintf(out, "   %-10s %d\n", table, st.Counts[table])
	}

	if len(st.Admins) == 0 {
		fmt.Fprintln(out, "📭 No administrators yet, run: nora bootstrap")
		return nil
	}
	fmt.Fprintf(out, "👤 Administrators: %s\n", strings.Join(st.Admins, ", "))
	return nil
}
