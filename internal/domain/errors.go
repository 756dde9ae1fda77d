package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// StockShortage is one offending line of an InsufficientStockError.
type StockShortage struct {
	ProductID   string
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

// InsufficientStockError carries every line that would drive a product's
// stock negative. The operation that produced it wrote nothing.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s: requested %s, available %s",
			s.ProductName, s.Requested.String(), s.Available.String()))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// ReferentialIntegrityError blocks deletion of a record that invoices or
// ledger entries still reference. Sample holds a few blocking references
// (invoice numbers) for the error message.
type ReferentialIntegrityError struct {
	Entity     string
	ID         string
	References int
	Sample     []string
}

func (e *ReferentialIntegrityError) Error() string {
	msg := fmt.Sprintf("%s %s is referenced by %d record(s)", e.Entity, e.ID, e.References)
	if len(e.Sample) > 0 {
		msg += " (e.g. " + strings.Join(e.Sample, ", ") + ")"
	}
	return msg
}

// PartialWriteError reports a multi-step workflow that failed after some
// steps had already committed. There is no automatic rollback; StepsDone
// tells the operator what to reconcile.
type PartialWriteError struct {
	Op        string
	StepsDone []string
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s failed after steps [%s]: %v",
		e.Op, strings.Join(e.StepsDone, ", "), e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// AllocationDegradedError is a soft error: the invoice number came from a
// fallback tier instead of the atomic sequence. The operation still
// succeeds; this is logged and flagged for review, never returned.
type AllocationDegradedError struct {
	Tier  string
	Cause error
}

func (e *AllocationDegradedError) Error() string {
	return fmt.Sprintf("invoice number allocation degraded to %s: %v", e.Tier, e.Cause)
}

func (e *AllocationDegradedError) Unwrap() error { return e.Cause }
