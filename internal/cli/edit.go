package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/catalog"
)

// fieldFlags are the product columns settable from the command line.
type fieldFlags struct {
	Name     string
	Price    int64
	Quantity int64
	Supplier string
	Phone    int64
}

func (f *fieldFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "product name")
	cmd.Flags().Int64Var(&f.Price, "price", 0, "price (non-negative integer)")
	cmd.Flags().Int64Var(&f.Quantity, "quantity", 0, "quantity in stock (non-negative integer)")
	cmd.Flags().StringVar(&f.Supplier, "supplier", "", "supplier code 0-5 or label (\"Supplier 3\", \"unknown\")")
	cmd.Flags().Int64Var(&f.Phone, "phone", 0, "supplier phone number (positive integer)")
}

// fields returns the flags the user actually set. Unset flags stay absent
// so that column defaults (insert) or stored values (update) apply.
func (f *fieldFlags) fields(cmd *cobra.Command) (catalog.Fields, error) {
	var out catalog.Fields
	flags := cmd.Flags()

	if flags.Changed("name") {
		out.Name = catalog.Ref(f.Name)
	}
	if flags.Changed("price") {
		out.Price = catalog.Ref(f.Price)
	}
	if flags.Changed("quantity") {
		out.Quantity = catalog.Ref(f.Quantity)
	}
	if flags.Changed("supplier") {
		supplier, err := catalog.ParseSupplier(f.Supplier)
		if err != nil {
			return out, err
		}
		out.Supplier = catalog.Ref(supplier)
	}
	if flags.Changed("phone") {
		out.SupplierPhone = catalog.Ref(f.Phone)
	}
	return out, nil
}

// AddResult is the JSON payload of the add command.
type AddResult struct {
	URI string `json:"uri"`
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &fieldFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Long: `Add a product to the catalog and print its identifier.

A name, a supplier and a supplier phone number are required. Price and
quantity default to 0.

Example:
  shelf add --name "The Hobbit" --price 999 --quantity 7 --supplier 3 --phone 5555555555`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(rootOpts, flags, cmd)
		},
	}

	flags.bind(cmd)
	return cmd
}

func runAdd(opts *RootOptions, flags *fieldFlags, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	fields, err := flags.fields(cmd)
	if err != nil {
		return report(a.formatter, ExitCommandError, ErrCodeUsage, err.Error(), nil)
	}

	uri, err := a.router.Insert(context.Background(), a.table.CollectionURI(), fields)
	if err != nil {
		return reportRouterError(a.formatter, err)
	}
	if uri == "" {
		return report(a.formatter, ExitFailure, ErrCodeNotStored, "product was not saved", nil)
	}

	if a.formatter.Format == "json" {
		return a.formatter.Success(AddResult{URI: uri})
	}
	fmt.Fprintf(a.formatter.Writer, "Added %s\n", uri)
	return nil
}

// CountResult is the JSON payload of commands that change rows.
type CountResult struct {
	Rows int64 `json:"rows"`
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &fieldFlags{}

	cmd := &cobra.Command{
		Use:   "update <id|identifier>",
		Short: "Change fields of one product",
		Long: `Change the fields of one product. Only the flags given are written.

Examples:
  shelf update 1 --quantity 6
  shelf update 1 --supplier "Supplier 2" --phone 5550001111`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(rootOpts, flags, args[0], cmd)
		},
	}

	flags.bind(cmd)
	return cmd
}

func runUpdate(opts *RootOptions, flags *fieldFlags, arg string, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	uri, err := a.itemIdentifier(arg)
	if err != nil {
		return err
	}

	fields, err := flags.fields(cmd)
	if err != nil {
		return report(a.formatter, ExitCommandError, ErrCodeUsage, err.Error(), nil)
	}
	if fields.Empty() {
		a.formatter.VerboseLog("No fields given; nothing to update")
	}

	n, err := a.router.Update(context.Background(), uri, fields, nil)
	if err != nil {
		return reportRouterError(a.formatter, err)
	}

	if a.formatter.Format == "json" {
		return a.formatter.Success(CountResult{Rows: n})
	}
	fmt.Fprintf(a.formatter.Writer, "Updated %d product(s)\n", n)
	return nil
}
