package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loozhengyuan/djtmpl/internal/build"
)

type options struct {
	format string
}

func New() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the current version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := build.Info()
			switch opts.format {
			case "text":
				if err := info.OutputText(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("output text: %w", err)
				}
			case "json":
				if err := info.OutputJSON(cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("output json: %w", err)
				}
			default:
				return fmt.Errorf("unknown format value: %s", opts.format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	return cmd
}
