package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	All bool
	Yes bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete [<id|identifier> | --all --yes]",
		Short: "Delete one product or every product",
		Long: `Delete one product, or with --all every product in the catalog.

Deleting everything also requires --yes.

Examples:
  shelf delete 3
  shelf delete --all --yes`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "delete every product")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm --all")

	return cmd
}

func runDelete(opts *DeleteOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	switch {
	case opts.All && len(args) > 0:
		return report(formatter, ExitCommandError, ErrCodeUsage, "give an identifier or --all, not both", nil)
	case !opts.All && len(args) == 0:
		return report(formatter, ExitCommandError, ErrCodeUsage, "give an identifier or --all", nil)
	case opts.All && !opts.Yes:
		return report(formatter, ExitCommandError, ErrCodeUsage, "refusing to delete every product without --yes", nil)
	}

	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	uri := a.table.CollectionURI()
	if !opts.All {
		if uri, err = a.itemIdentifier(args[0]); err != nil {
			return err
		}
	}

	n, err := a.router.Delete(context.Background(), uri, nil)
	if err != nil {
		return reportRouterError(a.formatter, err)
	}

	if a.formatter.Format == "json" {
		return a.formatter.Success(CountResult{Rows: n})
	}
	fmt.Fprintf(a.formatter.Writer, "Deleted %d product(s)\n", n)
	return nil
}
