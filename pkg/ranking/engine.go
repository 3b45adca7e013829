// Package ranking scores candidate movies against a set of preferred genres
// and orders them for presentation.
package ranking

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/goccy/go-json"

	"github.com/nikogura/cinescope/pkg/catalog"
)

const (
	// GenreWeight is added to the score for every matching genre.
	GenreWeight = 2.0
	// JitterBound is the half-width of the uniform random perturbation.
	JitterBound = 0.5
)

// Source yields uniformly distributed values in [0,1).
type Source interface {
	Float64() float64
}

// globalSource draws from the goroutine-safe math/rand/v2 top-level generator.
type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

// ScoredMovie is a catalog record annotated for one ranking call.
type ScoredMovie struct {
	catalog.Movie
	RecommendationScore float64 `json:"recommendation_score"`
	MatchingGenres      int     `json:"matching_genres"`
}

// MarshalJSON flattens the movie fields next to the score fields.
func (s ScoredMovie) MarshalJSON() (data []byte, err error) {
	fields := s.Movie.Fields()
	fields["recommendation_score"] = s.RecommendationScore
	fields["matching_genres"] = s.MatchingGenres
	data, err = json.Marshal(fields)
	return data, err
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *ScoredMovie) UnmarshalJSON(data []byte) (err error) {
	var movie catalog.Movie
	err = json.Unmarshal(data, &movie)
	if err != nil {
		return err
	}

	var score struct {
		RecommendationScore float64 `json:"recommendation_score"`
		MatchingGenres      int     `json:"matching_genres"`
	}
	err = json.Unmarshal(data, &score)
	if err != nil {
		return err
	}

	delete(movie.Extras, "recommendation_score")
	delete(movie.Extras, "matching_genres")
	if len(movie.Extras) == 0 {
		movie.Extras = nil
	}

	s.Movie = movie
	s.RecommendationScore = score.RecommendationScore
	s.MatchingGenres = score.MatchingGenres
	return err
}

// Engine ranks candidates. It holds no per-call state; concurrent use is safe
// as long as its Source is.
type Engine struct {
	source Source
}

// NewEngine creates an engine drawing jitter from src. A nil src uses the
// process-wide random generator.
func NewEngine(src Source) (engine *Engine) {
	if src == nil {
		src = globalSource{}
	}
	engine = &Engine{source: src}
	return engine
}

// Rank scores candidates against preferred and returns at most limit of them,
// highest score first. Candidates are not modified.
func (e *Engine) Rank(candidates []catalog.Movie, preferred []string, limit int) (ranked []ScoredMovie) {
	ranked = []ScoredMovie{}
	if limit <= 0 || len(candidates) == 0 {
		return ranked
	}

	prefs := make(map[string]struct{}, len(preferred))
	for _, g := range preferred {
		prefs[g] = struct{}{}
	}

	ranked = make([]ScoredMovie, 0, len(candidates))
	for _, movie := range candidates {
		matching := countMatches(movie.Genres, prefs)
		score := movie.Rating + GenreWeight*float64(matching) + e.jitter()

		ranked = append(ranked, ScoredMovie{
			Movie:               movie,
			RecommendationScore: Round(score, 2),
			MatchingGenres:      matching,
		})
	}

	slices.SortStableFunc(ranked, func(a, b ScoredMovie) int {
		switch {
		case a.RecommendationScore > b.RecommendationScore:
			return -1
		case a.RecommendationScore < b.RecommendationScore:
			return 1
		default:
			return 0
		}
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// jitter returns a value in [-JitterBound, JitterBound).
func (e *Engine) jitter() (j float64) {
	j = (e.source.Float64() - 0.5) * 2 * JitterBound
	return j
}

// MatchingGenres counts the movie's genres that appear in preferred.
func MatchingGenres(movie catalog.Movie, preferred []string) (matching int) {
	prefs := make(map[string]struct{}, len(preferred))
	for _, g := range preferred {
		prefs[g] = struct{}{}
	}
	matching = countMatches(movie.Genres, prefs)
	return matching
}

func countMatches(genres []string, prefs map[string]struct{}) (matching int) {
	for _, g := range genres {
		if _, ok := prefs[g]; ok {
			matching++
		}
	}
	return matching
}

// Round rounds v to the given number of decimal places, halves away from zero.
func Round(v float64, places int) (rounded float64) {
	scale := math.Pow(10, float64(places))
	rounded = math.Round(v*scale) / scale
	return rounded
}
