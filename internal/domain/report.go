package domain

import (
	"fmt"
	"strings"
)

// MaxReportErrors caps the error messages returned by import and restore.
const MaxReportErrors = 10

// BulkResult reports a bulk update or delete. Succeeded plus the number of
// failed IDs always equals the number of requested IDs.
type BulkResult struct {
	Succeeded int
	FailedIDs []string
}

// Record adds the outcome of one ID.
func (r *BulkResult) Record(id string, err error) {
	if err != nil {
		r.FailedIDs = append(r.FailedIDs, id)
		return
	}
	r.Succeeded++
}

// DuplicatePolicy decides how imported rows reconcile with existing entries
// that share product name, store name and order date.
type DuplicatePolicy string

const (
	DuplicateSkip   DuplicatePolicy = "skip"
	DuplicateUpdate DuplicatePolicy = "update"
	DuplicateAdd    DuplicatePolicy = "add"
)

// ParseDuplicatePolicy parses a policy name. An empty value means skip.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch p := DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DuplicateSkip, nil
	case DuplicateSkip, DuplicateUpdate, DuplicateAdd:
		return p, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidDuplicatePolicy, s)
}

// ImportReport summarises a CSV import.
type ImportReport struct {
	Imported int
	Skipped  int
	Failed   int
	Errors   []string
}

// AddError counts a failed row, keeping only the first MaxReportErrors messages.
func (r *ImportReport) AddError(row int, err error) {
	r.Failed++
	if len(r.Errors) < MaxReportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("Row %d: %v", row, err))
	}
}

// RestoreReport summarises a backup restore.
type RestoreReport struct {
	Restored int
	Failed   int
	Errors   []string
}

// AddError counts a failed item, keeping only the first MaxReportErrors messages.
func (r *RestoreReport) AddError(productName string, err error) {
	r.Failed++
	if productName == "" {
		productName = "unknown"
	}
	if len(r.Errors) < MaxReportErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("Failed to restore item '%s': %v", productName, err))
	}
}
