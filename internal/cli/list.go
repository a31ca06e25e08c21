package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/fastertools/platform-env/internal/generator"
	"github.com/fastertools/platform-env/internal/platform"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List platforms declared in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportOnError(cmd.OutOrStdout(), runList(cmd.OutOrStdout(), opts, format))
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format (table, json)")

	return cmd
}

func runList(w io.Writer, opts *rootOptions, format string) error {
	g, err := generator.New()
	if err != nil {
		return err
	}

	reg, err := g.Load(opts.platformsFile())
	if err != nil {
		return err
	}

	names := reg.Names()
	if len(names) == 0 && format != string(OutputFormatJSON) {
		Info(w, "No platforms declared in %s", reg.Path())
		return nil
	}

	tb := NewTableBuilder("NAME", "PREFIX", "IMAGE", "INSTANCE_TYPE", "USER", "SHELL_TYPE")
	for _, name := range names {
		p := reg.Platforms[name]
		tb.AddRow(name, platform.Prefix(name), p.Image, p.InstanceType, p.Username, p.Shell())
	}

	return tb.Write(NewDataWriter(w, format))
}
