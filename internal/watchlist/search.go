package watchlist

import (
	"sort"
	"strings"

	"github.com/amaumene/watchlistarr/internal/models"
)

// FilterMode distinguishes the two call sites of local search, which
// interpret an empty query differently.
type FilterMode int

const (
	// FilterDropdown is the inline navbar preview: an empty query yields
	// nothing and results are capped at three.
	FilterDropdown FilterMode = iota
	// FilterListing is the full watchlists page: an empty query yields the
	// whole collection, uncapped.
	FilterListing
)

const dropdownLimit = 3

// Filter matches the query as a case-sensitive substring of a watchlist's
// name or about text and sorts matches by name ascending.
func Filter(all []models.Watchlist, query string, mode FilterMode) []models.Watchlist {
	if mode == FilterDropdown && query == "" {
		return []models.Watchlist{}
	}

	results := make([]models.Watchlist, 0, len(all))
	for _, w := range all {
		if strings.Contains(w.Name, query) || strings.Contains(w.About, query) {
			results = append(results, w)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	if mode == FilterDropdown && len(results) > dropdownLimit {
		results = results[:dropdownLimit]
	}
	return results
}
