package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/loozhengyuan/djtmpl/internal/engine"
	"github.com/loozhengyuan/djtmpl/internal/logger"
)

type options struct {
	template     string
	contextFiles []string
	set          []string
	output       string
	sprig        bool
	noAutoescape bool
}

func New() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "render [FILE|-]",
		Short: "Renders a template against a context.",
		Long: `Renders a template file, stdin ("-") or --template string against the
context built from --context files and --set assignments, in that order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := engine.Configure(engine.Settings{Autoescape: !opts.noAutoescape}); err != nil {
				return fmt.Errorf("configure engine: %w", err)
			}
			if s, _ := engine.Configured(); s.Autoescape == opts.noAutoescape {
				logger.L().Warn("engine already configured, ignoring --no-autoescape", "autoescape", s.Autoescape)
			}

			tpl, file, err := opts.readTemplate(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			ctx, err := opts.buildContext()
			if err != nil {
				return err
			}

			ropts := []engine.Option{engine.WithLogger(logger.L())}
			if opts.sprig {
				ropts = append(ropts, engine.WithSprig())
			}
			r, err := engine.NewRenderer(ropts...)
			if err != nil {
				return fmt.Errorf("create renderer: %w", err)
			}

			if file == "" && opts.output == "" {
				if err := r.RenderTo(cmd.OutOrStdout(), tpl, ctx); err != nil {
					return fmt.Errorf("render template: %w", err)
				}
				return nil
			}

			var out string
			if file != "" {
				out, err = engine.NewConfigReader(r, ctx).Read(file)
			} else {
				out, err = r.RenderTemplate(tpl, ctx)
			}
			if err != nil {
				return fmt.Errorf("render template: %w", err)
			}

			if opts.output == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			if err := engine.WriteFile(opts.output, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			logger.L().Info("wrote output", "path", opts.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "template source given inline")
	cmd.Flags().StringArrayVarP(&opts.contextFiles, "context", "c", nil, "JSON or YAML context file (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.set, "set", "s", nil, "context assignment key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.sprig, "sprig", false, "expose sprig helper functions")
	cmd.Flags().BoolVar(&opts.noAutoescape, "no-autoescape", false, "disable HTML autoescaping")
	return cmd
}

// readTemplate returns the inline or stdin source, or the name of the
// template file to render.
func (o *options) readTemplate(stdin io.Reader, args []string) (tpl, file string, err error) {
	switch {
	case o.template != "" && len(args) > 0:
		return "", "", errors.New("--template and a template file are mutually exclusive")
	case o.template != "":
		return o.template, "", nil
	case len(args) == 0:
		return "", "", errors.New("no template given")
	case args[0] == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), "", nil
	default:
		return "", args[0], nil
	}
}

func (o *options) buildContext() (engine.Context, error) {
	ctx := engine.Context{}
	for _, name := range o.contextFiles {
		c, err := engine.LoadContextFile(name)
		if err != nil {
			return nil, fmt.Errorf("load context %s: %w", name, err)
		}
		ctx = ctx.Merge(c)
	}
	sets, err := engine.ParseAssignments(o.set)
	if err != nil {
		return nil, err
	}
	return ctx.Merge(sets), nil
}
