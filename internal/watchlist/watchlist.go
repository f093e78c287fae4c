// Package watchlist holds the pure transition functions over a user's
// watchlist collection. Every function works on a snapshot and returns a new
// one; callers persist the result through the state store.
package watchlist

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/amaumene/watchlistarr/internal/models"
)

// Field selects which watchlist text field a rename targets.
type Field string

const (
	FieldName  Field = "name"
	FieldAbout Field = "about"
)

// IDGenerator produces watchlist ids. Kept behind an interface so the hash
// scheme can be swapped for e.g. UUIDs without touching callers.
type IDGenerator interface {
	NewID(userID, name string) string
}

// HashIDGenerator derives ids from a sha1 over creation time, owner and
// name. Collisions are only theoretical at user-curated scale.
type HashIDGenerator struct{}

func (HashIDGenerator) NewID(userID, name string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d%s%s", time.Now().UnixMilli(), userID, name)))
	return hex.EncodeToString(sum[:])
}

// clone deep-copies a snapshot so mutations never leak into the caller's
// slice.
func clone(lists []models.Watchlist) []models.Watchlist {
	out := make([]models.Watchlist, len(lists))
	for i, w := range lists {
		out[i] = w
		out[i].Movies = append([]models.MovieRef(nil), w.Movies...)
	}
	return out
}

// Create appends a new watchlist. With an initialMovieID the list starts
// with that movie unwatched, otherwise empty. Name collisions are allowed;
// only the id is unique.
func Create(existing []models.Watchlist, name, about, initialMovieID, userID string, gen IDGenerator) []models.Watchlist {
	w := models.Watchlist{
		ID:     gen.NewID(userID, name),
		Name:   name,
		About:  about,
		Movies: []models.MovieRef{},
	}
	if initialMovieID != "" {
		w.Movies = append(w.Movies, models.MovieRef{ID: initialMovieID})
	}
	return append(clone(existing), w)
}

// AddMovie appends the movie to the watchlist, unwatched. Unknown watchlist
// ids and movies already present are silently dropped.
func AddMovie(existing []models.Watchlist, watchlistID, movieID string) []models.Watchlist {
	out := clone(existing)
	for i := range out {
		if out[i].ID != watchlistID {
			continue
		}
		if out[i].FindMovie(movieID) >= 0 {
			return out
		}
		out[i].Movies = append(out[i].Movies, models.MovieRef{ID: movieID})
		return out
	}
	return out
}

// ToggleWatched flips the watched flag of the movie. No-op when either id is
// unknown.
func ToggleWatched(existing []models.Watchlist, watchlistID, movieID string) []models.Watchlist {
	out := clone(existing)
	for i := range out {
		if out[i].ID != watchlistID {
			continue
		}
		if j := out[i].FindMovie(movieID); j >= 0 {
			out[i].Movies[j].Watched = !out[i].Movies[j].Watched
		}
		return out
	}
	return out
}

// RemoveMovie deletes the movie from the watchlist. No-op when either id is
// unknown.
func RemoveMovie(existing []models.Watchlist, watchlistID, movieID string) []models.Watchlist {
	out := clone(existing)
	for i := range out {
		if out[i].ID != watchlistID {
			continue
		}
		if j := out[i].FindMovie(movieID); j >= 0 {
			out[i].Movies = append(out[i].Movies[:j], out[i].Movies[j+1:]...)
		}
		return out
	}
	return out
}

// Rename replaces the name or about text of the watchlist. An empty newText
// leaves the snapshot unchanged; restoring the displayed text is the
// caller's job.
func Rename(existing []models.Watchlist, watchlistID string, field Field, newText string) []models.Watchlist {
	out := clone(existing)
	if newText == "" {
		return out
	}
	for i := range out {
		if out[i].ID != watchlistID {
			continue
		}
		switch field {
		case FieldName:
			out[i].Name = newText
		case FieldAbout:
			out[i].About = newText
		}
		return out
	}
	return out
}

// Delete removes the watchlist. Removing the only one yields the explicit
// "no watchlists" state rather than an empty collection.
func Delete(existing []models.Watchlist, watchlistID string) models.WatchlistSet {
	out := clone(existing)
	for i := range out {
		if out[i].ID != watchlistID {
			continue
		}
		out = append(out[:i], out[i+1:]...)
		if len(out) == 0 {
			return models.NoWatchlists()
		}
		return models.SomeWatchlists(out)
	}
	return models.SomeWatchlists(out)
}
