package checkout

import (
	"fmt"

	"github.com/mmynk/tablepay/internal/models"
)

// SetSelected marks the lines with the given keys. If any key is unknown
// nothing is changed.
func SetSelected(items []models.OwedItem, keys []string, selected bool) ([]models.OwedItem, error) {
	targets := make(map[int]bool, len(keys))
	for _, key := range keys {
		idx := indexOf(items, key)
		if idx < 0 {
			return items, fmt.Errorf("%w: %s", ErrItemNotFound, key)
		}
		targets[idx] = true
	}

	out := make([]models.OwedItem, len(items))
	for i, item := range items {
		if targets[i] {
			item.Selected = selected
		}
		out[i] = item
	}
	return out, nil
}

// SelectPayer marks every line attributed to payer.
func SelectPayer(items []models.OwedItem, payer models.Payer, selected bool) []models.OwedItem {
	out := make([]models.OwedItem, len(items))
	for i, item := range items {
		if item.Payer == payer {
			item.Selected = selected
		}
		out[i] = item
	}
	return out
}

// SelectAll marks every line.
func SelectAll(items []models.OwedItem, selected bool) []models.OwedItem {
	out := make([]models.OwedItem, len(items))
	for i, item := range items {
		item.Selected = selected
		out[i] = item
	}
	return out
}
