package checkout

import (
	"context"
	"fmt"

	"github.com/mmynk/tablepay/internal/models"
)

// CommitFunc hands a settlement request to whatever persists or charges it and
// returns the lines actually committed.
type CommitFunc func(ctx context.Context, req models.SettlementRequest) ([]models.SettlementLine, error)

// Submit builds a settlement from the selected lines, commits it and, only if
// the commit succeeds, reconciles the working set against the committed lines.
//
// On any failure the returned working set is items itself, so retrying is
// always safe. A commit error is wrapped in ErrSettlementFailed.
func Submit(ctx context.Context, items []models.OwedItem, p SettlementParams, commit CommitFunc) ([]models.OwedItem, error) {
	req, err := BuildSettlement(items, p)
	if err != nil {
		return items, err
	}

	committed, err := commit(ctx, req)
	if err != nil {
		return items, fmt.Errorf("%w: %w", ErrSettlementFailed, err)
	}
	return Reconcile(items, committed), nil
}
