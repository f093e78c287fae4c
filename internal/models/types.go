package models

// User represents a registered profile. The ID doubles as display name and
// as the key under which the user's watchlists are stored.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Img   string `json:"img,omitempty"`
}

// MovieRef is a catalog movie pinned inside a watchlist. It has no identity
// outside the watchlist that holds it.
type MovieRef struct {
	ID      string `json:"id"`
	Watched bool   `json:"watched"`
}

// Watchlist is a user-curated, ordered collection of movie references.
type Watchlist struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	About  string     `json:"about"`
	Movies []MovieRef `json:"movies"`
}

// FindMovie returns the index of the movie with the given id, or -1.
func (w *Watchlist) FindMovie(movieID string) int {
	for i, m := range w.Movies {
		if m.ID == movieID {
			return i
		}
	}
	return -1
}

// MovieSummary is the read-only catalog projection used in search results.
// Never persisted.
type MovieSummary struct {
	ID     string `json:"id"`
	Poster string `json:"poster"`
	Title  string `json:"title"`
	Year   string `json:"year"`
}

// MovieDetail extends MovieSummary with the fields of a full catalog lookup.
type MovieDetail struct {
	MovieSummary
	Rating   string   `json:"rating"`
	Released string   `json:"released"`
	Runtime  string   `json:"runtime"`
	Genre    string   `json:"genre"`
	Actors   []string `json:"actors"`
	Plot     string   `json:"plot"`
}
