// Package commands implements the CLI commands for signet.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/signet/internal/app"
	"go.trai.ch/signet/internal/build"
)

// CLI represents the command line interface for signet.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "signet",
		Short:         "Strong-name sign managed modules and keep their references consistent",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	// Persistent flags go first so the version flag does not claim -v.
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to signet.yaml or the directory to search from")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		_, err := c.app.Configure(app.GlobalOptions{
			ConfigPath: configPath,
			Verbose:    verbose,
			JSONLogs:   jsonLogs,
		})
		return err
	}

	rootCmd.AddCommand(c.newSignCmd())
	rootCmd.AddCommand(c.newBatchCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newFixCmd())
	rootCmd.AddCommand(c.newKeygenCmd())
	rootCmd.AddCommand(c.newVerifyCmd())
	rootCmd.AddCommand(c.newReassembleCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetOut redirects the output cobra writes itself, such as help and --version.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("key", "k", "", "Key file (.snk, .pfx or .p12); a key pair is generated when omitted")
	cmd.Flags().StringP("password", "p", "", "Password of a PKCS#12 key file (defaults to the configured environment variable)")
}

func keyOptions(cmd *cobra.Command) app.KeyOptions {
	keyPath, _ := cmd.Flags().GetString("key")
	password, _ := cmd.Flags().GetString("password")
	return app.KeyOptions{KeyPath: keyPath, Password: password}
}
