package checkout

import "errors"

var (
	// ErrInvalidDiscount is returned for out-of-range discount values or a
	// discount attempted on a split part.
	ErrInvalidDiscount = errors.New("invalid discount")
	// ErrInvalidSplit is returned when splitting into fewer than two parts or
	// splitting an item that is already split.
	ErrInvalidSplit = errors.New("invalid split")
	// ErrIncompleteSplit is returned when undoing a split whose parts are not
	// all present in the working set.
	ErrIncompleteSplit = errors.New("incomplete split")
	// ErrNoItemsSelected is returned when building a settlement with nothing selected.
	ErrNoItemsSelected = errors.New("no items selected")
	// ErrSettlementFailed wraps a rejection or transport failure from the
	// settlement collaborator.
	ErrSettlementFailed = errors.New("settlement failed")
	// ErrItemNotFound is returned when a key does not match any line in the working set.
	ErrItemNotFound = errors.New("item not found")
)
