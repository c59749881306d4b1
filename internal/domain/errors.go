package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the root of every rejected-input error.
	ErrValidation = errors.New("validation failed")

	// Entry errors
	ErrEntryNotFound          = errors.New("entry not found")
	ErrInvalidProductName     = fmt.Errorf("%w: invalid product name", ErrValidation)
	ErrInvalidStoreName       = fmt.Errorf("%w: invalid store name", ErrValidation)
	ErrInvalidQuantity        = fmt.Errorf("%w: invalid quantity", ErrValidation)
	ErrInvalidCostPerItem     = fmt.Errorf("%w: invalid cost per item", ErrValidation)
	ErrInvalidAmountPaid      = fmt.Errorf("%w: invalid amount paid", ErrValidation)
	ErrInvalidSoldPrice       = fmt.Errorf("%w: invalid sold price", ErrValidation)
	ErrInvalidStatus          = fmt.Errorf("%w: status must be one of Pending, Delivered, Sold", ErrValidation)
	ErrInvalidDate            = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidAmount          = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrAmountPaidExceedsTotal = fmt.Errorf("%w: amount paid cannot exceed total cost", ErrValidation)

	// Bulk errors
	ErrEmptyUpdate     = fmt.Errorf("%w: no update data provided", ErrValidation)
	ErrNoEntryIDs      = fmt.Errorf("%w: at least one entry id is required", ErrValidation)
	ErrTooManyEntryIDs = fmt.Errorf("%w: too many entry ids", ErrValidation)

	// Interchange errors
	ErrInvalidDuplicatePolicy = fmt.Errorf("%w: duplicate handling must be one of skip, update, add", ErrValidation)
	ErrMalformedDocument      = errors.New("malformed interchange document")
	ErrDocumentTooLarge       = errors.New("interchange document too large")
)
