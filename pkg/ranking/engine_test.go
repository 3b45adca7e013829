package ranking

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/nikogura/cinescope/pkg/catalog"
)

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) Float64() float64 {
	return float64(f)
}

// sequenceSource replays draws in order, wrapping around.
type sequenceSource struct {
	mu    sync.Mutex
	draws []float64
	next  int
}

func (s *sequenceSource) Float64() (v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v = s.draws[s.next%len(s.draws)]
	s.next++
	return v
}

func movie(id int, rating float64, genres ...string) (m catalog.Movie) {
	m = catalog.Movie{ID: id, Title: "Movie", Year: 2000, Genres: genres, Rating: rating}
	return m
}

func TestRankExactScoresWithoutJitter(t *testing.T) {
	engine := NewEngine(fixedSource(0.5))

	candidates := []catalog.Movie{
		movie(1, 7.0, "Drama"),
		movie(2, 8.5, "Comedy", "Romance"),
		movie(3, 9.0, "Horror"),
	}

	ranked := engine.Rank(candidates, []string{"Comedy", "Romance", "Family"}, 10)

	want := []struct {
		id       int
		score    float64
		matching int
	}{
		{id: 2, score: 12.5, matching: 2},
		{id: 3, score: 9.0, matching: 0},
		{id: 1, score: 7.0, matching: 0},
	}

	if len(ranked) != len(want) {
		t.Fatalf("Expected %d results, got %d", len(want), len(ranked))
	}

	for i, w := range want {
		if ranked[i].ID != w.id {
			t.Errorf("Position %d: expected movie %d, got %d", i, w.id, ranked[i].ID)
		}
		if ranked[i].RecommendationScore != w.score {
			t.Errorf("Movie %d: expected score %v, got %v", w.id, w.score, ranked[i].RecommendationScore)
		}
		if ranked[i].MatchingGenres != w.matching {
			t.Errorf("Movie %d: expected %d matching genres, got %d", w.id, w.matching, ranked[i].MatchingGenres)
		}
	}
}

func TestRankJitterBounds(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		want float64
	}{
		{name: "lowest draw", draw: 0.0, want: 10.0},
		{name: "middle draw", draw: 0.5, want: 10.5},
		{name: "high draw", draw: 0.99, want: 10.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(fixedSource(tt.draw))
			ranked := engine.Rank([]catalog.Movie{movie(1, 8.5, "Comedy")}, []string{"Comedy"}, 1)

			if len(ranked) != 1 {
				t.Fatalf("Expected 1 result, got %d", len(ranked))
			}
			if ranked[0].RecommendationScore != tt.want {
				t.Errorf("Expected score %v, got %v", tt.want, ranked[0].RecommendationScore)
			}
		})
	}
}

func TestRankRoundsToTwoPlaces(t *testing.T) {
	engine := NewEngine(fixedSource(0.123456))
	ranked := engine.Rank([]catalog.Movie{movie(1, 7.0)}, nil, 1)

	got := ranked[0].RecommendationScore
	if got != Round(got, 2) {
		t.Errorf("Expected two decimal places, got %v", got)
	}
	if got != 6.62 {
		t.Errorf("Expected 6.62, got %v", got)
	}
}

func TestRankLimit(t *testing.T) {
	engine := NewEngine(fixedSource(0.5))
	candidates := []catalog.Movie{movie(1, 5), movie(2, 6), movie(3, 7)}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "truncates", limit: 2, want: 2},
		{name: "fewer candidates than limit", limit: 10, want: 3},
		{name: "zero", limit: 0, want: 0},
		{name: "negative", limit: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := engine.Rank(candidates, nil, tt.limit)
			if len(ranked) != tt.want {
				t.Errorf("Expected %d results, got %d", tt.want, len(ranked))
			}
			if ranked == nil {
				t.Error("Expected non-nil slice")
			}
		})
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	engine := NewEngine(nil)
	ranked := engine.Rank(nil, []string{"Drama"}, 5)
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("Expected empty non-nil result, got %v", ranked)
	}
}

func TestRankDoesNotMutateCandidates(t *testing.T) {
	engine := NewEngine(fixedSource(0.5))
	candidates := []catalog.Movie{movie(1, 5, "Drama"), movie(2, 9, "Drama")}

	_ = engine.Rank(candidates, []string{"Drama"}, 2)

	if candidates[0].ID != 1 || candidates[1].ID != 2 {
		t.Error("Expected candidate order to be untouched")
	}
}

func TestIdenticalCandidatesStayWithinJitterSpread(t *testing.T) {
	engine := NewEngine(nil)
	a := movie(1, 8.0, "Action", "Sci-Fi")
	b := movie(2, 8.0, "Action", "Sci-Fi")
	prefs := []string{"Action", "Adventure"}

	for range 200 {
		ranked := engine.Rank([]catalog.Movie{a, b}, prefs, 2)
		if ranked[0].MatchingGenres != ranked[1].MatchingGenres {
			t.Fatalf("Expected equal matching counts, got %d and %d", ranked[0].MatchingGenres, ranked[1].MatchingGenres)
		}
		if diff := math.Abs(ranked[0].RecommendationScore - ranked[1].RecommendationScore); diff > 2*JitterBound {
			t.Fatalf("Expected scores within %v, got difference %v", 2*JitterBound, diff)
		}
	}
}

func TestGenreMatchRaisesExpectedScore(t *testing.T) {
	engine := NewEngine(nil)
	prefs := []string{"Comedy", "Family"}
	one := movie(1, 7.0, "Comedy")
	two := movie(2, 7.0, "Comedy", "Family")

	const rounds = 2000
	var sumOne, sumTwo float64
	for range rounds {
		ranked := engine.Rank([]catalog.Movie{one, two}, prefs, 2)
		for _, r := range ranked {
			if r.ID == 1 {
				sumOne += r.RecommendationScore
			} else {
				sumTwo += r.RecommendationScore
			}
		}
	}

	delta := (sumTwo - sumOne) / rounds
	if delta < GenreWeight-JitterBound || delta > GenreWeight+JitterBound {
		t.Errorf("Expected mean score gap near %v, got %v", GenreWeight, delta)
	}
}

func TestSequenceSourceOrdersByJitter(t *testing.T) {
	// Equal rating and overlap: jitter alone decides the order.
	engine := NewEngine(&sequenceSource{draws: []float64{0.1, 0.9}})
	ranked := engine.Rank([]catalog.Movie{movie(1, 7.0, "Drama"), movie(2, 7.0, "Drama")}, []string{"Drama"}, 2)

	if ranked[0].ID != 2 {
		t.Errorf("Expected movie 2 with the larger draw first, got %d", ranked[0].ID)
	}
}

func TestMatchingGenres(t *testing.T) {
	tests := []struct {
		name   string
		genres []string
		prefs  []string
		want   int
	}{
		{name: "none", genres: []string{"Drama"}, prefs: []string{"Comedy"}, want: 0},
		{name: "two", genres: []string{"Drama", "Romance", "War"}, prefs: []string{"Romance", "Drama"}, want: 2},
		{name: "empty genres", genres: nil, prefs: []string{"Drama"}, want: 0},
		{name: "case sensitive", genres: []string{"drama"}, prefs: []string{"Drama"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchingGenres(catalog.Movie{Genres: tt.genres}, tt.prefs)
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoredMovieJSON(t *testing.T) {
	scored := ScoredMovie{
		Movie:               movie(4, 8.1, "Action"),
		RecommendationScore: 10.27,
		MatchingGenres:      1,
	}

	out, err := json.Marshal(scored)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	for _, fragment := range []string{`"id":4`, `"recommendation_score":10.27`, `"matching_genres":1`, `"genres":["Action"]`} {
		if !strings.Contains(string(out), fragment) {
			t.Errorf("Expected %s in %s", fragment, out)
		}
	}

	var back ScoredMovie
	err = json.Unmarshal(out, &back)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if back.ID != 4 || back.RecommendationScore != 10.27 || back.MatchingGenres != 1 || back.Extras != nil {
		t.Errorf("Unexpected decoded value: %+v", back)
	}
}
