package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/filter"
	"github.com/roach88/shelf/internal/resource"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	AllColumns bool
	Sort       []string
	Supplier   string
	InStock    bool
}

// listColumns is the default list projection.
var listColumns = []catalog.Column{
	catalog.ColumnID,
	catalog.ColumnName,
	catalog.ColumnPrice,
	catalog.ColumnQuantity,
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long: `List products in insertion order.

Text output shows id, name, price and quantity; --all-columns adds the
supplier columns. JSON output always carries every column.

Examples:
  shelf list
  shelf list --sort price:desc --sort name
  shelf list --supplier 3 --in-stock --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.AllColumns, "all-columns", false, "show every column in text output")
	cmd.Flags().StringArrayVar(&opts.Sort, "sort", nil, "sort key column[:desc] (repeatable)")
	cmd.Flags().StringVar(&opts.Supplier, "supplier", "", "only products from this supplier (code or label)")
	cmd.Flags().BoolVar(&opts.InStock, "in-stock", false, "only products with quantity above zero")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := listRequest(opts)
	if err != nil {
		return report(a.formatter, ExitCommandError, ErrCodeUsage, err.Error(), nil)
	}

	cur, err := a.router.Query(context.Background(), a.table.CollectionURI(), req)
	if err != nil {
		return reportRouterError(a.formatter, err)
	}
	products, err := cur.All()
	if err != nil {
		return reportRouterError(a.formatter, err)
	}
	a.formatter.VerboseLog("Found %d product(s)", len(products))

	if a.formatter.Format == "json" {
		return a.formatter.Success(products)
	}
	if len(products) == 0 {
		fmt.Fprintln(a.formatter.Writer, "No products found.")
		return nil
	}
	return a.formatter.Table(productTable(products, req.Columns))
}

func listRequest(opts *ListOptions) (resource.Request, error) {
	var req resource.Request

	if opts.Format != "json" && !opts.AllColumns {
		req.Columns = listColumns
	}

	for _, key := range opts.Sort {
		order, err := parseSort(key)
		if err != nil {
			return req, err
		}
		req.Order = append(req.Order, order)
	}

	if opts.Supplier != "" {
		supplier, err := catalog.ParseSupplier(opts.Supplier)
		if err != nil {
			return req, err
		}
		if !supplier.Valid() {
			return req, fmt.Errorf("unknown supplier %d", int(supplier))
		}
		req.Where = filter.Equals{Column: catalog.ColumnSupplier, Value: supplier}
	}
	if opts.InStock {
		req.Where = filter.All(req.Where, filter.Compare{Column: catalog.ColumnQuantity, Op: filter.OpGt, Value: 0})
	}

	return req, nil
}

// parseSort reads "column" or "column:asc|desc".
func parseSort(key string) (filter.Order, error) {
	name, dir, _ := strings.Cut(key, ":")
	col, ok := catalog.ParseColumn(name)
	if !ok {
		return filter.Order{}, fmt.Errorf("unknown sort column %q", name)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return filter.Asc(col), nil
	case "desc":
		return filter.Desc(col), nil
	default:
		return filter.Order{}, fmt.Errorf("unknown sort direction %q (want asc or desc)", dir)
	}
}

// columnHeaders are the text table headers per column.
var columnHeaders = map[catalog.Column]string{
	catalog.ColumnID:            "ID",
	catalog.ColumnName:          "NAME",
	catalog.ColumnPrice:         "PRICE",
	catalog.ColumnQuantity:      "QUANTITY",
	catalog.ColumnSupplier:      "SUPPLIER",
	catalog.ColumnSupplierPhone: "PHONE",
}

func productTable(products []catalog.Product, columns []catalog.Column) ([]string, [][]string) {
	if len(columns) == 0 {
		columns = catalog.Columns
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = columnHeaders[col]
	}

	rows := make([][]string, len(products))
	for i, p := range products {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = cell(p, col)
		}
		rows[i] = row
	}
	return headers, rows
}

func cell(p catalog.Product, col catalog.Column) string {
	switch col {
	case catalog.ColumnID:
		return strconv.FormatInt(p.ID, 10)
	case catalog.ColumnName:
		return p.Name
	case catalog.ColumnPrice:
		return strconv.FormatInt(p.Price, 10)
	case catalog.ColumnQuantity:
		return strconv.FormatInt(p.Quantity, 10)
	case catalog.ColumnSupplier:
		return p.Supplier.String()
	case catalog.ColumnSupplierPhone:
		return strconv.FormatInt(p.SupplierPhone, 10)
	}
	return ""
}
