package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/fastertools/platform-env/internal/envfile"
	"github.com/fastertools/platform-env/internal/generator"
	"github.com/fastertools/platform-env/internal/platform"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <platform>",
		Short: "Print the exports for a platform without writing a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportOnError(cmd.OutOrStdout(), runShow(cmd.OutOrStdout(), opts, args[0], format))
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format (text, json)")

	return cmd
}

func runShow(w io.Writer, opts *rootOptions, name, format string) error {
	g, err := generator.New()
	if err != nil {
		return err
	}

	reg, err := g.Load(opts.platformsFile())
	if err != nil {
		return err
	}

	p, err := g.Resolve(reg, name)
	if err != nil {
		return err
	}

	if format == string(OutputFormatJSON) {
		prefix := platform.Prefix(name)
		vars := make(map[string]string, len(envfile.Fields))
		for field, value := range envfile.Values(name, p) {
			vars[prefix+"_"+field] = value
		}
		return NewDataWriter(w, format).WriteStruct(vars)
	}

	_, err = w.Write(envfile.Render(name, p))
	return err
}
