package catalog

import (
	"testing"
)

func testMovies() (movies []Movie) {
	movies = []Movie{
		{ID: 1, Title: "Paddington 2", Year: 2017, Genres: []string{"Comedy", "Family", "Adventure"}, Rating: 7.8, Description: "A bear in London"},
		{ID: 2, Title: "The Shawshank Redemption", Year: 1994, Genres: []string{"Drama"}, Rating: 9.3, Description: "Hope is a good thing"},
		{ID: 3, Title: "Mad Max: Fury Road", Year: 2015, Genres: []string{"Action", "Adventure", "Sci-Fi"}, Rating: 8.1, Description: "A chase across the wasteland"},
		{ID: 4, Title: "Hereditary", Year: 2018, Genres: []string{"Horror", "Mystery", "Drama"}, Rating: 7.3, Description: "Grief turns sinister"},
		{ID: 5, Title: "La La Land", Year: 2016, Genres: []string{"Musical", "Romance", "Drama"}, Rating: 8.0, Description: "Jazz and dreams in LA"},
		{ID: 6, Title: "Free Solo", Year: 2018, Genres: []string{"Documentary", "Sports"}, Rating: 8.1, Description: "A climb without ropes"},
	}
	return movies
}

func ids(movies []Movie) (out []int) {
	out = make([]int, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func equalIDs(a, b []int) (ok bool) {
	if len(a) != len(b) {
		return ok
	}
	for i := range a {
		if a[i] != b[i] {
			return ok
		}
	}
	ok = true
	return ok
}

func TestByID(t *testing.T) {
	store := NewStore(testMovies())

	for _, want := range testMovies() {
		got, ok := store.ByID(want.ID)
		if !ok {
			t.Fatalf("Expected movie %d to be found", want.ID)
		}
		if got.ID != want.ID || got.Title != want.Title {
			t.Errorf("Expected movie %d %q, got %d %q", want.ID, want.Title, got.ID, got.Title)
		}
	}

	_, ok := store.ByID(999)
	if ok {
		t.Error("Expected unknown id to be absent")
	}
}

func TestAllPreservesLoadOrder(t *testing.T) {
	store := NewStore(testMovies())

	got := ids(store.All())
	want := []int{1, 2, 3, 4, 5, 6}
	if !equalIDs(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	// Mutating the returned slice must not affect the store.
	all := store.All()
	all[0].Title = "changed"
	again, _ := store.ByID(1)
	if again.Title != "Paddington 2" {
		t.Errorf("Expected store to be unaffected, got title %q", again.Title)
	}
}

func TestByGenre(t *testing.T) {
	store := NewStore(testMovies())

	tests := []struct {
		name  string
		genre string
		want  []int
	}{
		{name: "drama", genre: "Drama", want: []int{2, 4, 5}},
		{name: "case sensitive", genre: "drama", want: []int{}},
		{name: "unknown", genre: "Western", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(store.ByGenre(tt.genre))
			if !equalIDs(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestByAnyGenre(t *testing.T) {
	store := NewStore(testMovies())

	genres := []string{"Drama", "Adventure", "Romance"}
	got := store.ByAnyGenre(genres)

	want := []int{1, 2, 3, 4, 5}
	if !equalIDs(ids(got), want) {
		t.Errorf("Expected %v, got %v", want, ids(got))
	}

	seen := map[int]bool{}
	for _, m := range got {
		if seen[m.ID] {
			t.Errorf("Movie %d returned twice", m.ID)
		}
		seen[m.ID] = true

		if !m.HasAnyGenre(genres) {
			t.Errorf("Movie %d shares no genre with %v", m.ID, genres)
		}
	}

	if len(store.ByAnyGenre(nil)) != 0 {
		t.Error("Expected no movies for an empty genre set")
	}
}

func TestFilterByMinRating(t *testing.T) {
	movies := testMovies()

	got := FilterByMinRating(movies, 8.0)
	want := []int{2, 3, 5, 6}
	if !equalIDs(ids(got), want) {
		t.Errorf("Expected %v, got %v", want, ids(got))
	}

	for _, m := range got {
		if m.Rating < 8.0 {
			t.Errorf("Movie %d rated %v below threshold", m.ID, m.Rating)
		}
	}

	if len(FilterByMinRating(movies, 10.1)) != 0 {
		t.Error("Expected nothing above the rating scale")
	}
}

func TestSearch(t *testing.T) {
	store := NewStore(testMovies())

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "title substring", query: "max", want: []int{3}},
		{name: "description substring", query: "LONDON", want: []int{1}},
		{name: "partial word", query: "dream", want: []int{5}},
		{name: "no match", query: "zombie", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(store.Search(tt.query))
			if !equalIDs(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFind(t *testing.T) {
	store := NewStore(testMovies())

	tests := []struct {
		name  string
		query Query
		want  []int
	}{
		{name: "zero query lists everything", query: Query{}, want: []int{1, 2, 3, 4, 5, 6}},
		{name: "search", query: Query{Search: "THE"}, want: []int{2, 3}},
		{name: "genre", query: Query{Genre: "Drama"}, want: []int{2, 4, 5}},
		{name: "search and genre intersect", query: Query{Search: "the", Genre: "Drama"}, want: []int{2}},
		{name: "genre is case-sensitive", query: Query{Genre: "drama"}, want: []int{}},
		{name: "top rated within genre", query: Query{Genre: "Adventure", TopRated: true}, want: []int{3, 1}},
		{name: "top rated with limit", query: Query{TopRated: true, Limit: 2}, want: []int{2, 3}},
		{name: "limit above count", query: Query{Genre: "Drama", Limit: 10}, want: []int{2, 4, 5}},
		{name: "negative limit lists everything", query: Query{Search: "the", Limit: -1}, want: []int{2, 3}},
		{name: "no match", query: Query{Search: "zombie"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Find(tt.query)
			if got == nil {
				t.Fatal("Expected non-nil result")
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, ids(got))
			}
		})
	}
}

func TestTopRated(t *testing.T) {
	store := NewStore(testMovies())

	// Mad Max (3) and Free Solo (6) tie at 8.1 and must keep catalog order.
	got := ids(store.TopRated(3))
	want := []int{2, 3, 6}
	if !equalIDs(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if len(store.TopRated(100)) != len(testMovies()) {
		t.Error("Expected limit larger than catalog to return everything")
	}

	if len(store.TopRated(0)) != 0 {
		t.Error("Expected zero limit to return nothing")
	}
}

func TestEmptyStore(t *testing.T) {
	store := Empty()

	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d movies", store.Len())
	}
	if len(store.All()) != 0 || len(store.ByGenre("Drama")) != 0 || len(store.Search("a")) != 0 || len(store.TopRated(5)) != 0 {
		t.Error("Expected every query on an empty store to return nothing")
	}
	if _, ok := store.ByID(1); ok {
		t.Error("Expected ByID on empty store to miss")
	}
}

func TestWithout(t *testing.T) {
	got := ids(Without(testMovies(), 3))
	want := []int{1, 2, 4, 5, 6}
	if !equalIDs(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestSnapshot(t *testing.T) {
	store := NewStore(testMovies())

	if got := ids(store.Snapshot(2)); !equalIDs(got, []int{1, 2}) {
		t.Errorf("Expected first two movies, got %v", got)
	}
	if got := store.Snapshot(50); len(got) != 6 {
		t.Errorf("Expected whole catalog, got %d", len(got))
	}
}
