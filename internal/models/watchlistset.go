package models

// WatchlistSet is a user's watchlist collection with an explicit "none"
// state. Deleting the last watchlist leaves the user with no collection at
// all, which is distinct from owning an empty one.
type WatchlistSet struct {
	lists []Watchlist
	none  bool
}

// NoWatchlists returns the set representing "this user has no watchlists".
func NoWatchlists() WatchlistSet {
	return WatchlistSet{none: true}
}

// SomeWatchlists wraps a concrete (possibly empty) collection.
func SomeWatchlists(lists []Watchlist) WatchlistSet {
	return WatchlistSet{lists: lists}
}

// None reports whether the set is the "no watchlists" state.
func (s WatchlistSet) None() bool {
	return s.none
}

// Lists returns the underlying collection. Nil when None.
func (s WatchlistSet) Lists() []Watchlist {
	if s.none {
		return nil
	}
	return s.lists
}

// Len returns the number of watchlists in the set.
func (s WatchlistSet) Len() int {
	if s.none {
		return 0
	}
	return len(s.lists)
}

// Find returns a pointer to the watchlist with the given id, or nil.
func (s WatchlistSet) Find(id string) *Watchlist {
	if s.none {
		return nil
	}
	for i := range s.lists {
		if s.lists[i].ID == id {
			return &s.lists[i]
		}
	}
	return nil
}
