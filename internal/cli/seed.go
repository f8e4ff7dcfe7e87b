package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/fixtures"
)

// SeedResult is the JSON payload of the seed command.
type SeedResult struct {
	Rows int      `json:"rows"`
	URIs []string `json:"uris"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed [file.yaml|file.cue]",
		Short: "Insert sample products",
		Long: `Insert the products listed in a YAML or CUE catalog file. Without a
file, insert one sample product (The Hobbit).

Examples:
  shelf seed
  shelf seed catalog.cue`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runSeed(opts *RootOptions, args []string, cmd *cobra.Command) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	items := []catalog.Fields{fixtures.Sample()}
	if len(args) == 1 {
		if items, err = fixtures.Load(args[0]); err != nil {
			return report(a.formatter, ExitCommandError, ErrCodeFixtures, err.Error(), nil)
		}
	}
	a.formatter.VerboseLog("Seeding %d product(s)", len(items))

	uris, err := fixtures.Seed(context.Background(), a.router, items)
	if err != nil {
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			return report(a.formatter, ExitFailure, ErrCodeInvalidField, err.Error(), map[string]string{"field": string(ve.Field)})
		}
		return report(a.formatter, ExitFailure, ErrCodeNotStored, err.Error(), nil)
	}

	if a.formatter.Format == "json" {
		return a.formatter.Success(SeedResult{Rows: len(uris), URIs: uris})
	}
	for _, uri := range uris {
		a.formatter.VerboseLog("Added %s", uri)
	}
	fmt.Fprintf(a.formatter.Writer, "Seeded %d product(s)\n", len(uris))
	return nil
}
