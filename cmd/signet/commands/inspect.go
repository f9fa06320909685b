package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <module>...",
		Short: "Show the identity of modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, _ := cmd.Flags().GetBool("refs")
			return c.app.Inspect(cmd.Context(), args, refs)
		},
	}
	cmd.Flags().BoolP("refs", "r", false, "Also list references and friend declarations")
	return cmd
}

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <module>...",
		Short: "Verify signatures with the configured strong name tool",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Verify(cmd.Context(), args)
		},
	}
}

func (c *CLI) newReassembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reassemble <module>",
		Short: "Rebuild a module through the configured disassembler and assembler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			key, _ := cmd.Flags().GetString("key")
			return c.app.Reassemble(cmd.Context(), args[0], out, key)
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output file (default: in place)")
	cmd.Flags().StringP("key", "k", "", "Key file passed to the assembler")
	return cmd
}
