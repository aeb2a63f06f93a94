package cmd

import (
	"github.com/spf13/cobra"

	"github.com/loozhengyuan/djtmpl/internal/cmd/apply"
	"github.com/loozhengyuan/djtmpl/internal/cmd/render"
	"github.com/loozhengyuan/djtmpl/internal/cmd/version"
	"github.com/loozhengyuan/djtmpl/internal/logger"
)

type options struct {
	logLevel string
}

func New() (*cobra.Command, error) {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "djtmpl",
		Short:         "Render Django-style templates.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(opts.logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.AddCommand(apply.New())
	cmd.AddCommand(render.New())
	cmd.AddCommand(version.New())
	return cmd, nil
}
