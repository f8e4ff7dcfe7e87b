package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/resource"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|identifier>",
		Short: "Show one product",
		Long: `Show every column of one product.

Examples:
  shelf show 1
  shelf show content://com.example.android.bookstoreinventory_part1/products/1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, arg string, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	uri, err := a.itemIdentifier(arg)
	if err != nil {
		return err
	}

	cur, err := a.router.Query(context.Background(), uri, resource.Request{})
	if err != nil {
		return reportRouterError(a.formatter, err)
	}
	products, err := cur.All()
	if err != nil {
		return reportRouterError(a.formatter, err)
	}
	if len(products) == 0 {
		return report(a.formatter, ExitFailure, ErrCodeNotFound, fmt.Sprintf("no product at %s", uri), nil)
	}

	p := products[0]
	if a.formatter.Format == "json" {
		return a.formatter.Success(p)
	}
	writeProduct(a.formatter, p)
	return nil
}

func writeProduct(f *OutputFormatter, p catalog.Product) {
	fmt.Fprintf(f.Writer, "%-10s%d\n", "ID:", p.ID)
	fmt.Fprintf(f.Writer, "%-10s%s\n", "Name:", p.Name)
	fmt.Fprintf(f.Writer, "%-10s%d\n", "Price:", p.Price)
	fmt.Fprintf(f.Writer, "%-10s%d\n", "Quantity:", p.Quantity)
	fmt.Fprintf(f.Writer, "%-10s%s\n", "Supplier:", p.Supplier)
	fmt.Fprintf(f.Writer, "%-10s%d\n", "Phone:", p.SupplierPhone)
}
