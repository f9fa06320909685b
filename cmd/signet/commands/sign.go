package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/signet/internal/app"
)

func (c *CLI) newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <module>...",
		Short: "Sign individual modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			force, _ := cmd.Flags().GetBool("force")
			fixRefs, _ := cmd.Flags().GetBool("fix-refs")
			return c.app.Sign(cmd.Context(), args, app.SignOptions{
				KeyOptions: keyOptions(cmd),
				OutputDir:  out,
				Force:      force,
				FixRefs:    fixRefs,
			})
		},
	}
	addKeyFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Directory to write signed modules to (default: in place)")
	cmd.Flags().BoolP("force", "f", false, "Re-sign modules that are already signed")
	cmd.Flags().Bool("fix-refs", false, "Sign the modules as a set and retarget references among them")
	cmd.MarkFlagsMutuallyExclusive("force", "fix-refs")
	return cmd
}

func (c *CLI) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir|module>...",
		Short: "Sign a working set and fix every reference between its modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			_, err := c.app.Batch(cmd.Context(), args, app.BatchOptions{
				KeyOptions: keyOptions(cmd),
				OutputDir:  out,
			})
			return err
		},
	}
	addKeyFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Target root mirroring the input layout (default: in place)")
	return cmd
}

func (c *CLI) newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <module> <reference>",
		Short: "Point a module's reference at the signed identity of another module",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Fix(cmd.Context(), args[0], args[1], keyOptions(cmd))
		},
	}
	addKeyFlags(cmd)
	return cmd
}

func (c *CLI) newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen <file>",
		Short: "Generate a strong name key pair",
		Long:  "Generate a strong name key pair. Files ending in .pfx or .p12 are written as password protected PKCS#12 containers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, _ := cmd.Flags().GetInt("bits")
			password, _ := cmd.Flags().GetString("password")
			return c.app.Keygen(cmd.Context(), args[0], bits, password)
		},
	}
	cmd.Flags().Int("bits", 0, "RSA modulus size (default 1024)")
	cmd.Flags().StringP("password", "p", "", "Password protecting a PKCS#12 container")
	return cmd
}
