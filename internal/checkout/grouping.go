package checkout

import (
	"sort"
	"strings"

	"github.com/mmynk/tablepay/internal/models"
)

// Group partitions a working set into payer groups.
//
// Items keep their working-set order inside a group. Groups are ordered by payer
// tier (registered, session, unidentified), then by name, then by payer ID, so
// the result does not depend on where in the working set a payer first appears.
func Group(items []models.OwedItem) []models.PayerGroup {
	index := make(map[models.Payer]int)
	var groups []models.PayerGroup

	for _, item := range items {
		idx, ok := index[item.Payer]
		if !ok {
			idx = len(groups)
			index[item.Payer] = idx
			groups = append(groups, models.PayerGroup{
				Payer:     item.Payer,
				PayerName: item.PayerName,
			})
		}
		groups[idx].Items = append(groups[idx].Items, item)
	}

	for i := range groups {
		summarize(&groups[i])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Payer.Kind != b.Payer.Kind {
			return a.Payer.Kind < b.Payer.Kind
		}
		an, bn := strings.ToLower(a.PayerName), strings.ToLower(b.PayerName)
		if an != bn {
			return an < bn
		}
		return a.Payer.ID < b.Payer.ID
	})

	return groups
}

func summarize(g *models.PayerGroup) {
	orders := make(map[string]struct{})
	allSelected := len(g.Items) > 0
	for _, item := range g.Items {
		orders[item.OrderID] = struct{}{}
		g.Total += item.FinalPrice
		if item.Selected {
			g.SelectedTotal += item.FinalPrice
		} else {
			allSelected = false
		}
	}
	g.DistinctOrderCount = len(orders)
	g.AllSelected = allSelected
}

// Flatten concatenates the items of groups back into a working set.
func Flatten(groups []models.PayerGroup) []models.OwedItem {
	var items []models.OwedItem
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	return items
}
