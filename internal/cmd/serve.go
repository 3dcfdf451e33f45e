package cmd

import (
	"fmt"

	"github.com/norahairline/norahairline/internal/database"
	"github.com/norahairline/norahairline/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the health check server",
	Long: `Starts an HTTP server exposing GET /api/health, which reports whether
the database is reachable and how many administrators exist.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from SERVER_ADDR)")
}

func runServer(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🚀 Nora Hair Line server starting...")

	fmt.Fprintln(out, "📝 Loading configuration...")
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "🔌 Connecting to database...")
	db, err := database.Open(cmd.Context(), &cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintln(out, "✅ Database connected successfully")

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.NewServer(db)
	fmt.Fprintf(out, "🌐 Starting server on %s...\n", addr)
	if err := srv.Run(cmd.Context(), addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Fprintln(out, "👋 Server stopped")
	return nil
}
