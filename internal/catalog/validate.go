package catalog

import (
	"errors"
	"fmt"
)

// ValidationError reports the first field constraint a payload violates.
type ValidationError struct {
	Field   Column
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidationError returns true if err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateInsert checks a payload for a new product.
// Rules are evaluated in order and the first violation is returned:
//  1. name present
//  2. price absent or >= 0
//  3. quantity absent or >= 0
//  4. supplier present and a valid code
//  5. supplier phone present and > 0
func ValidateInsert(f Fields) error {
	if f.Name == nil {
		return &ValidationError{Field: ColumnName, Message: "product requires a name"}
	}
	if err := checkPrice(f.Price); err != nil {
		return err
	}
	if err := checkQuantity(f.Quantity); err != nil {
		return err
	}
	if f.Supplier == nil {
		return &ValidationError{Field: ColumnSupplier, Message: "product requires a valid supplier"}
	}
	if err := checkSupplier(f.Supplier); err != nil {
		return err
	}
	if f.SupplierPhone == nil {
		return &ValidationError{Field: ColumnSupplierPhone, Message: "product requires a valid supplier phone number"}
	}
	return checkPhone(f.SupplierPhone)
}

// ValidateUpdate checks a partial payload. Each rule of ValidateInsert is
// applied only to the fields that are present.
func ValidateUpdate(f Fields) error {
	// A present name is a non-nil pointer, so rule 1 always holds here.
	if err := checkPrice(f.Price); err != nil {
		return err
	}
	if err := checkQuantity(f.Quantity); err != nil {
		return err
	}
	if err := checkSupplier(f.Supplier); err != nil {
		return err
	}
	return checkPhone(f.SupplierPhone)
}

func checkPrice(p *int64) error {
	if p != nil && *p < 0 {
		return &ValidationError{Field: ColumnPrice, Message: "product price must be zero or positive"}
	}
	return nil
}

func checkQuantity(q *int64) error {
	if q != nil && *q < 0 {
		return &ValidationError{Field: ColumnQuantity, Message: "product requires valid quantity"}
	}
	return nil
}

func checkSupplier(s *Supplier) error {
	if s != nil && !s.Valid() {
		return &ValidationError{Field: ColumnSupplier, Message: fmt.Sprintf("unknown supplier code %d", int(*s))}
	}
	return nil
}

func checkPhone(p *int64) error {
	if p != nil && *p <= 0 {
		return &ValidationError{Field: ColumnSupplierPhone, Message: "product requires valid supplier phone number"}
	}
	return nil
}
