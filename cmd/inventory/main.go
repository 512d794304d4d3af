// Command inventory runs the inventory web application and its
// maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/erazemk/inventory/internal/config"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// v holds defaults, environment bindings and flag overrides.
	v = config.New()

	// cfg is resolved once in PersistentPreRunE.
	cfg *config.Config

	// closeLog releases the log file, if one was opened.
	closeLog func()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inventory is a password-gated inventory web application",
	Long: `Inventory serves a small web application for managing categories and
items. Changes are authorized by access passwords created with
"inventory access add". Running without a subcommand starts the server.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
	RunE: runServe,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.StringP("db", "d", "inventory.sqlite3", "SQLite database path")
	flags.StringP("log", "l", "", "log file path (default: stdout/stderr only)")
	bindFlag(config.KeyDB, flags.Lookup("db"))
	bindFlag(config.KeyLog, flags.Lookup("log"))

	addServeFlags(rootCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(accessCmd)
	rootCmd.AddCommand(populateCmd)
}

// loadConfig resolves the configuration and sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Lookup("upload-dir") != nil {
		bindServeFlags(cmd)
	}

	c, err := config.Load(v, configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	closeLog, err = setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	return nil
}

// bindFlag lets an explicitly set flag override the environment and
// config file for key.
func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
