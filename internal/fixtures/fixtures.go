// Package fixtures provides seed data for a catalog: the built-in sample
// product and catalog files in YAML or CUE.
//
// A catalog file holds a single list:
//
//	products:
//	  - name: The Hobbit
//	    price: 999
//	    quantity: 7
//	    supplier: 3
//	    supplier_phone: 5555555555
//
// CUE files are unified with an embedded schema before decoding, so type
// and range errors are reported with file positions.
package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/resource"
)

//go:embed schema.cue
var schemaCUE string

// File is the decoded shape of a catalog file.
type File struct {
	Products []catalog.Fields `yaml:"products" json:"products"`
}

// Sample returns the demo product.
func Sample() catalog.Fields {
	return catalog.Fields{
		Name:          catalog.Ref("The Hobbit"),
		Price:         catalog.Ref(int64(999)),
		Quantity:      catalog.Ref(int64(7)),
		Supplier:      catalog.Ref(catalog.Supplier3),
		SupplierPhone: catalog.Ref(int64(5555555555)),
	}
}

// Load reads the products listed in a .yaml, .yml or .cue file.
func Load(path string) ([]catalog.Fields, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".cue":
		return decodeCUE(path, data)
	default:
		return nil, fmt.Errorf("unsupported fixture format %q (want .yaml, .yml or .cue)", ext)
	}
}

func decodeYAML(data []byte) ([]catalog.Fields, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return file.Products, nil
}

func decodeCUE(path string, data []byte) ([]catalog.Fields, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile fixture schema: %w", err)
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate fixtures: %w", err)
	}

	var file File
	if err := unified.LookupPath(cue.ParsePath("products")).Decode(&file.Products); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return file.Products, nil
}

// Seed inserts items into the collection r routes, in order, and returns
// the new identifiers. It stops at the first product that fails
// validation or is not stored.
func Seed(ctx context.Context, r *resource.Router, items []catalog.Fields) ([]string, error) {
	collection := r.Table().CollectionURI()

	uris := make([]string, 0, len(items))
	for i, item := range items {
		uri, err := r.Insert(ctx, collection, item)
		if err != nil {
			return uris, fmt.Errorf("product %d: %w", i, err)
		}
		if uri == "" {
			return uris, fmt.Errorf("product %d: not stored", i)
		}
		uris = append(uris, uri)
	}
	return uris, nil
}
