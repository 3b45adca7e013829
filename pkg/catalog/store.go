// Package catalog holds the immutable, in-memory movie catalog and its queries.
package catalog

import (
	"slices"
	"strings"
)

// Store is a read-only movie collection. Queries never mutate it, so it is safe
// for concurrent use. Returned slices are fresh; the Genres and Extras they
// reference are shared and must be treated as read-only.
type Store struct {
	movies []Movie
	byID   map[int]int
}

// NewStore builds a store over a copy of movies, preserving their order.
func NewStore(movies []Movie) (store *Store) {
	store = &Store{
		movies: slices.Clone(movies),
		byID:   make(map[int]int, len(movies)),
	}
	for i, m := range store.movies {
		if _, seen := store.byID[m.ID]; !seen {
			store.byID[m.ID] = i
		}
	}
	return store
}

// Empty returns a store with no movies.
func Empty() (store *Store) {
	store = NewStore(nil)
	return store
}

// Len returns the number of movies.
func (s *Store) Len() (n int) {
	n = len(s.movies)
	return n
}

// All returns every movie in load order.
func (s *Store) All() (movies []Movie) {
	movies = slices.Clone(s.movies)
	if movies == nil {
		movies = []Movie{}
	}
	return movies
}

// Snapshot returns at most limit movies from the head of the catalog.
func (s *Store) Snapshot(limit int) (movies []Movie) {
	movies = []Movie{}
	if limit <= 0 {
		return movies
	}
	n := min(limit, len(s.movies))
	movies = append(movies, s.movies[:n]...)
	return movies
}

// ByID returns the movie with the given id.
func (s *Store) ByID(id int) (movie Movie, ok bool) {
	var idx int
	idx, ok = s.byID[id]
	if !ok {
		return movie, ok
	}
	movie = s.movies[idx]
	return movie, ok
}

// ByGenre returns movies listing genre, in catalog order. Matching is case-sensitive.
func (s *Store) ByGenre(genre string) (movies []Movie) {
	movies = s.filter(func(m Movie) bool { return m.HasGenre(genre) })
	return movies
}

// ByAnyGenre returns movies sharing at least one genre with genres, each once, in catalog order.
func (s *Store) ByAnyGenre(genres []string) (movies []Movie) {
	movies = s.filter(func(m Movie) bool { return m.HasAnyGenre(genres) })
	return movies
}

// Search returns movies whose title or description contains query, ignoring case.
func (s *Store) Search(query string) (movies []Movie) {
	q := strings.ToLower(query)
	movies = s.filter(func(m Movie) bool { return m.matches(q) })
	return movies
}

// Query narrows a catalog listing. Zero fields do not filter.
type Query struct {
	Search   string
	Genre    string
	TopRated bool
	Limit    int
}

// Find returns the movies matching both Search and Genre, in catalog order or
// by rating when TopRated is set, cut to Limit when Limit is positive.
func (s *Store) Find(q Query) (movies []Movie) {
	source := s.movies
	if q.TopRated {
		source = s.TopRated(len(s.movies))
	}

	search := strings.ToLower(q.Search)
	movies = make([]Movie, 0)
	for _, m := range source {
		if search != "" && !m.matches(search) {
			continue
		}
		if q.Genre != "" && !m.HasGenre(q.Genre) {
			continue
		}
		movies = append(movies, m)
	}

	if q.Limit > 0 && len(movies) > q.Limit {
		movies = movies[:q.Limit]
	}
	return movies
}

// matches reports whether the lowercased query appears in the title or description.
func (m Movie) matches(lowered string) bool {
	return strings.Contains(strings.ToLower(m.Title), lowered) ||
		strings.Contains(strings.ToLower(m.Description), lowered)
}

// TopRated returns the limit highest rated movies. Ties keep catalog order.
func (s *Store) TopRated(limit int) (movies []Movie) {
	movies = []Movie{}
	if limit <= 0 {
		return movies
	}

	sorted := slices.Clone(s.movies)
	slices.SortStableFunc(sorted, func(a, b Movie) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		default:
			return 0
		}
	})

	n := min(limit, len(sorted))
	movies = append(movies, sorted[:n]...)
	return movies
}

func (s *Store) filter(keep func(Movie) bool) (movies []Movie) {
	movies = make([]Movie, 0)
	for _, m := range s.movies {
		if keep(m) {
			movies = append(movies, m)
		}
	}
	return movies
}

// FilterByMinRating returns the movies rated at least minRating, order preserved.
func FilterByMinRating(movies []Movie, minRating float64) (filtered []Movie) {
	filtered = make([]Movie, 0, len(movies))
	for _, m := range movies {
		if m.Rating >= minRating {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// Without returns movies minus any record with the given id, order preserved.
func Without(movies []Movie, id int) (filtered []Movie) {
	filtered = make([]Movie, 0, len(movies))
	for _, m := range movies {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
