package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Identifier defaults.
const (
	DefaultScheme    = "content"
	DefaultAuthority = "com.example.android.bookstoreinventory_part1"
	DefaultPath      = "products"
)

// MIME type prefixes.
const (
	dirTypePrefix  = "vnd.android.cursor.dir"
	itemTypePrefix = "vnd.android.cursor.item"
)

// Target is the resolved meaning of an identifier.
//
// This is a sealed interface: only Collection and Item implement it.
type Target interface {
	target()
	Kind() Kind
}

// Collection targets every product.
type Collection struct{}

func (Collection) target() {}

// Kind returns KindCollection.
func (Collection) Kind() Kind { return KindCollection }

// Item targets the product with the given id.
type Item struct {
	ID int64
}

func (Item) target() {}

// Kind returns KindItem.
func (Item) Kind() Kind { return KindItem }

// Kind names the shape of a Target.
type Kind string

const (
	KindCollection Kind = "collection"
	KindItem       Kind = "item"
)

// Table maps identifiers to targets. It is immutable once built and safe
// for concurrent use.
type Table struct {
	scheme    string
	authority string
	path      string
}

// NewTable builds a routing table for scheme://authority/path.
func NewTable(scheme, authority, path string) (*Table, error) {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	authority = strings.TrimSpace(authority)
	path = strings.Trim(strings.TrimSpace(path), "/")

	switch {
	case scheme == "":
		return nil, fmt.Errorf("routing table: scheme is required")
	case authority == "":
		return nil, fmt.Errorf("routing table: authority is required")
	case path == "":
		return nil, fmt.Errorf("routing table: path is required")
	case strings.Contains(path, "/"):
		return nil, fmt.Errorf("routing table: path %q must be a single segment", path)
	}

	return &Table{scheme: scheme, authority: authority, path: path}, nil
}

// DefaultTable returns the table for the default identifier scheme.
func DefaultTable() *Table {
	return &Table{scheme: DefaultScheme, authority: DefaultAuthority, path: DefaultPath}
}

// Authority returns the authority identifiers must carry.
func (t *Table) Authority() string {
	return t.authority
}

// Parse resolves raw into a Target. Any identifier that is not exactly the
// collection or one of its items yields an UNRECOGNIZED_IDENTIFIER error.
func (t *Table) Parse(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Opaque != "" {
		return nil, unrecognized(raw)
	}
	if u.Scheme != t.scheme || u.Host != t.authority {
		return nil, unrecognized(raw)
	}

	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	switch {
	case len(segments) == 1 && segments[0] == t.path:
		return Collection{}, nil
	case len(segments) == 2 && segments[0] == t.path:
		id, ok := parseID(segments[1])
		if !ok {
			return nil, unrecognized(raw)
		}
		return Item{ID: id}, nil
	}
	return nil, unrecognized(raw)
}

// CollectionURI returns the identifier of the whole collection.
func (t *Table) CollectionURI() string {
	return fmt.Sprintf("%s://%s/%s", t.scheme, t.authority, t.path)
}

// ItemURI returns the identifier of the product with the given id.
func (t *Table) ItemURI(id int64) string {
	return t.CollectionURI() + "/" + strconv.FormatInt(id, 10)
}

// URI returns the canonical identifier for target.
func (t *Table) URI(target Target) string {
	if item, ok := target.(Item); ok {
		return t.ItemURI(item.ID)
	}
	return t.CollectionURI()
}

// CollectionType returns the MIME type of a product list.
func (t *Table) CollectionType() string {
	return dirTypePrefix + "/" + t.authority + "/" + t.path
}

// ItemType returns the MIME type of a single product.
func (t *Table) ItemType() string {
	return itemTypePrefix + "/" + t.authority + "/" + t.path
}

// parseID accepts decimal digits only. Values that overflow int64 are
// rejected.
func parseID(s string) (int64, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
