package filter

import (
	"fmt"

	"github.com/roach88/shelf/internal/catalog"
)

// Validate checks that every column referenced by p and order exists,
// every operator is known and every value has a bindable type. A nil
// predicate is valid.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate, order []Order) error {
	if err := validatePredicate(p); err != nil {
		return err
	}
	for i, o := range order {
		if !o.Column.Valid() {
			return fmt.Errorf("order[%d]: unknown column %q", i, o.Column)
		}
	}
	return nil
}

func validatePredicate(p Predicate) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case Equals:
		return validateComparison(pred.Column, OpEq, pred.Value)
	case *Equals:
		if pred == nil {
			return fmt.Errorf("nil %T predicate", p)
		}
		return validateComparison(pred.Column, OpEq, pred.Value)
	case Compare:
		return validateComparison(pred.Column, pred.Op, pred.Value)
	case *Compare:
		if pred == nil {
			return fmt.Errorf("nil %T predicate", p)
		}
		return validateComparison(pred.Column, pred.Op, pred.Value)
	case And:
		return validateAnd(pred)
	case *And:
		if pred == nil {
			return fmt.Errorf("nil %T predicate", p)
		}
		return validateAnd(*pred)
	default:
		return fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func validateComparison(c catalog.Column, op Op, value any) error {
	if !c.Valid() {
		return fmt.Errorf("unknown column %q", c)
	}
	if !op.Valid() {
		return fmt.Errorf("unknown operator %q", op)
	}
	if _, err := Param(value); err != nil {
		return fmt.Errorf("%s: %w", c, err)
	}
	return nil
}

func validateAnd(a And) error {
	for i, p := range a.Predicates {
		if err := validatePredicate(p); err != nil {
			return fmt.Errorf("and[%d]: %w", i, err)
		}
	}
	return nil
}

// Param converts a filter value to a driver parameter. Integers and
// suppliers bind as int64, strings bind unchanged.
func Param(v any) (any, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case catalog.Supplier:
		return int64(val), nil
	case string:
		return val, nil
	case nil:
		return nil, fmt.Errorf("null is not comparable")
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
