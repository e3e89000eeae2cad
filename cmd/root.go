package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andresmejia3/facewire/internal/jxl"
	"github.com/andresmejia3/facewire/internal/store"
	"github.com/spf13/cobra"
)

// Options holds shared configuration for the image and batch commands
type Options struct {
	InputPath  string
	OutputPath string
	DepthPath  string
	NumEngines int
	Grayscale  bool
	Overwrite  bool
}

var (
	// DB is the global database connection shared by subcommands
	DB *store.Store
	// dbURL is the connection string
	dbURL string
)

// Version is the application version.
const Version = "0.1.0"

// needsDB marks commands that open the template store in PersistentPreRunE.
const needsDB = "needs-db"

var dbAnnotation = map[string]string{needsDB: "true"}

var rootCmd = &cobra.Command{
	Use:     "facewire",
	Short:   "Face template & lossless JPEG XL image serializer",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[needsDB] == "" {
			return nil
		}
		if dbURL == "" {
			dbURL = dsnFromEnv()
		}

		var err error
		// Use the command's context (which will be cancellable) for the connection
		DB, err = store.New(cmd.Context(), dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if DB != nil {
			// Use Background here because the main context might be cancelled already (due to Ctrl+C)
			// and we still need to send the "Close" command to the DB.
			DB.Close(context.Background())
		}
	},
}

// dsnFromEnv builds the connection string from POSTGRES_* variables, falling
// back to a local default.
func dsnFromEnv() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return "postgres://localhost:5432/facewire"
	}
	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	name := os.Getenv("POSTGRES_DB")
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{printf \"%%s\\n\" .Version}}libjxl %s\n", jxl.Version()))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "PostgreSQL connection string (default: postgres://localhost:5432/facewire)")
}
