package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/resource"
)

// TypeResult is the JSON payload of the type command.
type TypeResult struct {
	URI  string        `json:"uri"`
	Kind resource.Kind `json:"kind"`
	Type string        `json:"type"`
}

// NewTypeCommand creates the type command.
func NewTypeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "type <id|identifier>",
		Short: "Print the kind and MIME type of an identifier",
		Long: `Print whether an identifier names the collection or one product, and
the MIME type of the data it names. The database is not opened.

Example:
  shelf type content://com.example.android.bookstoreinventory_part1/products`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runType(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runType(opts *RootOptions, arg string, cmd *cobra.Command) error {
	a, err := loadApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	router := resource.NewRouter(a.table, nil, nil, resource.WithLogger(a.log))
	uri := a.identifier(arg)

	kind, err := router.Kind(uri)
	if err != nil {
		return reportRouterError(a.formatter, err)
	}
	typ, err := router.Type(uri)
	if err != nil {
		return reportRouterError(a.formatter, err)
	}

	if a.formatter.Format == "json" {
		return a.formatter.Success(TypeResult{URI: uri, Kind: kind, Type: typ})
	}
	fmt.Fprintf(a.formatter.Writer, "%-6s%s\n", "Kind:", kind)
	fmt.Fprintf(a.formatter.Writer, "%-6s%s\n", "Type:", typ)
	return nil
}
