package checkout

import (
	"fmt"

	"github.com/mmynk/tablepay/internal/models"
)

// indexOf returns the position of the line with the given key, or -1.
func indexOf(items []models.OwedItem, key string) int {
	for i, item := range items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// Find returns the line with the given key.
func Find(items []models.OwedItem, key string) (models.OwedItem, error) {
	idx := indexOf(items, key)
	if idx < 0 {
		return models.OwedItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	return items[idx], nil
}

// replaceAt returns a copy of items with items[idx] swapped for repl.
func replaceAt(items []models.OwedItem, idx int, repl ...models.OwedItem) []models.OwedItem {
	out := make([]models.OwedItem, 0, len(items)-1+len(repl))
	out = append(out, items[:idx]...)
	out = append(out, repl...)
	out = append(out, items[idx+1:]...)
	return out
}

// Total sums FinalPrice over the working set.
func Total(items []models.OwedItem) models.Cents {
	var total models.Cents
	for _, item := range items {
		total += item.FinalPrice
	}
	return total
}
