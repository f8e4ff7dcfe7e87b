package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/shelf/internal/catalog"
	"github.com/roach88/shelf/internal/filter"
)

// Statement is a compiled SQL statement with its positional parameters.
type Statement struct {
	SQL    string
	Params []any
}

// Select compiles a projection, filter and ordering against the product
// table. An empty projection selects every column in schema order; an
// empty ordering falls back to insertion order (_id ASC).
func Select(columns []catalog.Column, where filter.Predicate, order []filter.Order) (Statement, error) {
	if err := filter.Validate(where, order); err != nil {
		return Statement{}, fmt.Errorf("compile select: %w", err)
	}
	for _, c := range columns {
		if !c.Valid() {
			return Statement{}, fmt.Errorf("compile select: unknown column %q", c)
		}
	}

	whereSQL, params, err := compileWhere(where)
	if err != nil {
		return Statement{}, fmt.Errorf("compile select: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		compileColumns(columns),
		catalog.Table,
		whereSQL,
		compileOrder(order))

	return Statement{SQL: sql, Params: params}, nil
}

// Insert compiles an INSERT of the given assignments. Columns that are not
// assigned take their schema default.
func Insert(assignments []catalog.Assignment) (Statement, error) {
	if len(assignments) == 0 {
		return Statement{SQL: fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", catalog.Table)}, nil
	}

	cols := make([]string, len(assignments))
	marks := make([]string, len(assignments))
	params := make([]any, len(assignments))
	for i, a := range assignments {
		if err := checkWritable(a.Column); err != nil {
			return Statement{}, fmt.Errorf("compile insert: %w", err)
		}
		cols[i] = string(a.Column)
		marks[i] = "?"
		params[i] = a.Value
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		catalog.Table,
		strings.Join(cols, ", "),
		strings.Join(marks, ", "))

	return Statement{SQL: sql, Params: params}, nil
}

// Update compiles an UPDATE of the given assignments on the rows matching
// where. A nil where updates every row.
func Update(assignments []catalog.Assignment, where filter.Predicate) (Statement, error) {
	if len(assignments) == 0 {
		return Statement{}, fmt.Errorf("compile update: no assignments")
	}
	if err := filter.Validate(where, nil); err != nil {
		return Statement{}, fmt.Errorf("compile update: %w", err)
	}

	sets := make([]string, len(assignments))
	params := make([]any, 0, len(assignments))
	for i, a := range assignments {
		if err := checkWritable(a.Column); err != nil {
			return Statement{}, fmt.Errorf("compile update: %w", err)
		}
		sets[i] = fmt.Sprintf("%s = ?", a.Column)
		params = append(params, a.Value)
	}

	whereSQL, whereParams, err := compileWhere(where)
	if err != nil {
		return Statement{}, fmt.Errorf("compile update: %w", err)
	}

	sql := fmt.Sprintf("UPDATE %s SET %s%s", catalog.Table, strings.Join(sets, ", "), whereSQL)
	return Statement{SQL: sql, Params: append(params, whereParams...)}, nil
}

// Delete compiles a DELETE of the rows matching where. A nil where deletes
// every row.
func Delete(where filter.Predicate) (Statement, error) {
	if err := filter.Validate(where, nil); err != nil {
		return Statement{}, fmt.Errorf("compile delete: %w", err)
	}

	whereSQL, params, err := compileWhere(where)
	if err != nil {
		return Statement{}, fmt.Errorf("compile delete: %w", err)
	}

	return Statement{SQL: fmt.Sprintf("DELETE FROM %s%s", catalog.Table, whereSQL), Params: params}, nil
}

func checkWritable(c catalog.Column) error {
	if !c.Valid() || c == catalog.ColumnID {
		return fmt.Errorf("column %q is not writable", c)
	}
	return nil
}

// compileColumns converts a projection to a SELECT column list.
func compileColumns(columns []catalog.Column) string {
	if len(columns) == 0 {
		columns = catalog.Columns
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

// compileOrder returns the ORDER BY clause body. Names sort under
// catalog.NameCollation, which every store connection registers.
// _id is appended as the final key unless the caller already sorts on it.
func compileOrder(order []filter.Order) string {
	parts := make([]string, 0, len(order)+1)
	tiebreak := true
	for _, o := range order {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		if o.Column == catalog.ColumnName {
			parts = append(parts, fmt.Sprintf("%s COLLATE %s %s", o.Column, catalog.NameCollation, dir))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", o.Column, dir))
		}
		if o.Column == catalog.ColumnID {
			tiebreak = false
		}
	}
	if tiebreak {
		parts = append(parts, string(catalog.ColumnID)+" ASC")
	}
	return strings.Join(parts, ", ")
}

// compileWhere returns " WHERE <pred>", or "" for a nil predicate.
func compileWhere(p filter.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	sql, params, err := compilePredicate(p)
	if err != nil {
		return "", nil, err
	}
	return " WHERE " + sql, params, nil
}

// compilePredicate compiles a filter.Predicate to a WHERE clause fragment.
func compilePredicate(p filter.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case filter.Equals:
		return compileComparison(pred.Column, filter.OpEq, pred.Value)
	case *filter.Equals:
		if pred == nil {
			return "", nil, fmt.Errorf("nil %T predicate", p)
		}
		return compileComparison(pred.Column, filter.OpEq, pred.Value)
	case filter.Compare:
		return compileComparison(pred.Column, pred.Op, pred.Value)
	case *filter.Compare:
		if pred == nil {
			return "", nil, fmt.Errorf("nil %T predicate", p)
		}
		return compileComparison(pred.Column, pred.Op, pred.Value)
	case filter.And:
		return compileAnd(pred)
	case *filter.And:
		if pred == nil {
			return "", nil, fmt.Errorf("nil %T predicate", p)
		}
		return compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compileComparison(col catalog.Column, op filter.Op, value any) (string, []any, error) {
	param, err := filter.Param(value)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", col, err)
	}
	return fmt.Sprintf("%s %s ?", col, op), []any{param}, nil
}

// compileAnd compiles an And predicate to a parenthesized conjunction.
func compileAnd(and filter.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // vacuous truth
	}

	parts := make([]string, 0, len(and.Predicates))
	var params []any
	for _, p := range and.Predicates {
		sql, ps, err := compilePredicate(p)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}

	if len(parts) == 1 {
		return parts[0], params, nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", params, nil
}
