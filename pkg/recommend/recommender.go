// Package recommend turns a mood or a reference movie into a ranked list of
// catalog entries.
package recommend

import (
	"fmt"
	"strings"

	"github.com/nikogura/cinescope/pkg/catalog"
	"github.com/nikogura/cinescope/pkg/failure"
	"github.com/nikogura/cinescope/pkg/ranking"
)

const (
	// DefaultMoodLimit is the result count when a mood request names none.
	DefaultMoodLimit = 6
	// DefaultSimilarLimit is the result count for similar-movie requests.
	DefaultSimilarLimit = 5
)

// MoodReport is the result of a mood recommendation.
type MoodReport struct {
	Mood            string                `json:"mood"`
	Description     string                `json:"description"`
	Genres          []string              `json:"genres"`
	Count           int                   `json:"count"`
	Recommendations []ranking.ScoredMovie `json:"recommendations"`
}

// SimilarReport is the result of a similar-movie request.
type SimilarReport struct {
	Original catalog.Movie         `json:"original_movie"`
	Similar  []ranking.ScoredMovie `json:"similar_movies"`
}

// MoodSummary is the public view of a mood.
type MoodSummary struct {
	Name        string   `json:"-"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
}

// Recommender combines the catalog, the ranking engine and the mood table.
type Recommender struct {
	store  *catalog.Store
	engine *ranking.Engine
	table  Table
}

// New builds a Recommender. A nil store behaves as an empty catalog and a nil
// engine uses the default random source.
func New(store *catalog.Store, engine *ranking.Engine, table Table) (r *Recommender) {
	if store == nil {
		store = catalog.Empty()
	}
	if engine == nil {
		engine = ranking.NewEngine(nil)
	}
	if table.Len() == 0 {
		table = DefaultTable()
	}

	r = &Recommender{
		store:  store,
		engine: engine,
		table:  table,
	}
	return r
}

// Recommend ranks catalog entries for mood. Matching is case-insensitive;
// an unknown mood yields a failure that lists the valid keys.
func (r *Recommender) Recommend(mood string, limit int) (report MoodReport, err error) {
	key := strings.ToLower(strings.TrimSpace(mood))
	if key == "" {
		err = failure.New(failure.KindValidation, "Mood is required").WithOptions(r.table.Names())
		return report, err
	}

	policy, ok := r.table.Lookup(key)
	if !ok {
		err = failure.Newf(failure.KindUnknownMood, "Invalid mood: %s", key).WithOptions(r.table.Names())
		return report, err
	}

	candidates := catalog.FilterByMinRating(r.store.ByAnyGenre(policy.Genres), policy.MinRating)
	ranked := r.engine.Rank(candidates, policy.Genres, limit)

	report = MoodReport{
		Mood:            policy.Name,
		Description:     policy.Description,
		Genres:          policy.Genres,
		Count:           len(ranked),
		Recommendations: ranked,
	}
	return report, err
}

// Similar ranks catalog entries sharing at least one genre with the movie.
// The movie itself is never part of the result.
func (r *Recommender) Similar(movieID int, limit int) (report SimilarReport, err error) {
	original, ok := r.store.ByID(movieID)
	if !ok {
		err = failure.Newf(failure.KindNotFound, "Movie not found: %d", movieID)
		return report, err
	}

	candidates := catalog.Without(r.store.ByAnyGenre(original.Genres), original.ID)

	report = SimilarReport{
		Original: original,
		Similar:  r.engine.Rank(candidates, original.Genres, limit),
	}
	return report, err
}

// Moods lists every mood in table order.
func (r *Recommender) Moods() (moods []MoodSummary) {
	for _, m := range r.table.Moods() {
		moods = append(moods, MoodSummary{Name: m.Name, Description: m.Description, Genres: m.Genres})
	}
	return moods
}

// MoodNames lists the valid mood keys.
func (r *Recommender) MoodNames() (names []string) {
	names = r.table.Names()
	return names
}

// Prompt phrases a mood as a question for the conversational assistant.
func (r *Recommender) Prompt(mood string) (prompt string, err error) {
	policy, ok := r.table.Lookup(mood)
	if !ok {
		err = failure.Newf(failure.KindUnknownMood, "Invalid mood: %s", strings.ToLower(strings.TrimSpace(mood))).WithOptions(r.table.Names())
		return prompt, err
	}

	prompt = fmt.Sprintf(
		"I'm feeling %s. I'm interested in %s movies. What movie would you recommend from the database and why?",
		policy.Name,
		strings.Join(policy.Genres, ", "),
	)
	return prompt, err
}

// Store exposes the catalog the recommender reads from.
func (r *Recommender) Store() (store *catalog.Store) {
	store = r.store
	return store
}
