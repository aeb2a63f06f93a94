package apply

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loozhengyuan/djtmpl/internal/engine"
	"github.com/loozhengyuan/djtmpl/internal/logger"
)

type options struct {
	force        bool
	dryRun       bool
	sprig        bool
	noAutoescape bool
}

func New() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "apply PLAN",
		Short: "Renders every template listed in a plan file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.Configure(engine.Settings{Autoescape: !opts.noAutoescape}); err != nil {
				return fmt.Errorf("configure engine: %w", err)
			}
			if s, _ := engine.Configured(); s.Autoescape == opts.noAutoescape {
				logger.L().Warn("engine already configured, ignoring --no-autoescape", "autoescape", s.Autoescape)
			}

			eopts := []engine.EngineOption{engine.WithEngineLogger(logger.L())}
			if opts.sprig {
				eopts = append(eopts, engine.WithRendererOptions(engine.WithSprig()))
			}
			e, err := engine.NewFromFile(args[0], eopts...)
			if err != nil {
				return fmt.Errorf("create engine: %w", err)
			}
			e.SetForce(opts.force)
			e.SetDryRun(opts.dryRun)

			results, err := e.Execute(cmd.Context())
			if err != nil {
				return fmt.Errorf("execute plan: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				if opts.dryRun {
					fmt.Fprintf(out, "==> %s\n%s\n", r.Target, r.Output)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", r.Status, r.Target)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite changed targets without prompting")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print rendered output instead of writing it")
	cmd.Flags().BoolVar(&opts.sprig, "sprig", false, "expose sprig helper functions")
	cmd.Flags().BoolVar(&opts.noAutoescape, "no-autoescape", false, "disable HTML autoescaping")
	return cmd
}
