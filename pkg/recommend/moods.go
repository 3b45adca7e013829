package recommend

import (
	"strings"

	"github.com/pkg/errors"
)

// Mood is one entry of the mood policy table.
type Mood struct {
	Name        string   `json:"name" yaml:"name" koanf:"name"`
	Genres      []string `json:"genres" yaml:"genres" koanf:"genres"`
	MinRating   float64  `json:"min_rating" yaml:"min_rating" koanf:"min_rating"`
	Description string   `json:"description" yaml:"description" koanf:"description"`
}

// Table is an ordered, immutable set of mood policies keyed by lowercase name.
type Table struct {
	moods []Mood
	index map[string]int
}

// DefaultTable returns the built-in moods.
func DefaultTable() (table Table) {
	table, _ = NewTable(
		Mood{
			Name:        "happy",
			Genres:      []string{"Comedy", "Romance", "Musical", "Family", "Animation"},
			MinRating:   7.0,
			Description: "Feel-good movies to boost your happiness",
		},
		Mood{
			Name:        "sad",
			Genres:      []string{"Drama", "Romance"},
			MinRating:   7.5,
			Description: "Emotional films that understand your feelings",
		},
		Mood{
			Name:        "excited",
			Genres:      []string{"Action", "Adventure", "Thriller", "Sci-Fi"},
			MinRating:   7.0,
			Description: "High-energy movies to match your excitement",
		},
		Mood{
			Name:        "relaxed",
			Genres:      []string{"Documentary", "Animation", "Fantasy"},
			MinRating:   7.5,
			Description: "Calming content for peaceful viewing",
		},
		Mood{
			Name:        "scared",
			Genres:      []string{"Horror", "Mystery", "Thriller"},
			MinRating:   7.0,
			Description: "Thrilling films to embrace the fear",
		},
		Mood{
			Name:        "inspired",
			Genres:      []string{"Biography", "Documentary", "Sports", "Drama"},
			MinRating:   7.5,
			Description: "Motivational stories to fuel your ambition",
		},
	)
	return table
}

// NewTable validates and indexes moods. Keys must be non-empty, lowercase and
// unique, and every mood needs at least one genre.
func NewTable(moods ...Mood) (table Table, err error) {
	if len(moods) == 0 {
		err = errors.New("mood table is empty")
		return table, err
	}

	table.moods = make([]Mood, 0, len(moods))
	table.index = make(map[string]int, len(moods))

	for i, m := range moods {
		switch {
		case strings.TrimSpace(m.Name) == "":
			err = errors.Errorf("mood %d has no name", i)
			return Table{}, err
		case m.Name != strings.ToLower(strings.TrimSpace(m.Name)):
			err = errors.Errorf("mood %q must be lowercase without surrounding space", m.Name)
			return Table{}, err
		case len(m.Genres) == 0:
			err = errors.Errorf("mood %q has no genres", m.Name)
			return Table{}, err
		case m.MinRating < 0 || m.MinRating > 10:
			err = errors.Errorf("mood %q min_rating %.1f is outside 0-10", m.Name, m.MinRating)
			return Table{}, err
		}

		if _, dup := table.index[m.Name]; dup {
			err = errors.Errorf("duplicate mood %q", m.Name)
			return Table{}, err
		}

		m.Genres = append([]string(nil), m.Genres...)
		table.index[m.Name] = len(table.moods)
		table.moods = append(table.moods, m)
	}

	return table, err
}

// Lookup finds a mood by name after lowercasing and trimming it.
func (t Table) Lookup(name string) (mood Mood, ok bool) {
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return mood, ok
	}
	mood = t.moods[i]
	mood.Genres = append([]string(nil), mood.Genres...)
	return mood, ok
}

// Names lists the mood keys in table order.
func (t Table) Names() (names []string) {
	names = make([]string, 0, len(t.moods))
	for _, m := range t.moods {
		names = append(names, m.Name)
	}
	return names
}

// Moods returns a copy of every entry in table order.
func (t Table) Moods() (moods []Mood) {
	moods = make([]Mood, 0, len(t.moods))
	for _, m := range t.moods {
		m.Genres = append([]string(nil), m.Genres...)
		moods = append(moods, m)
	}
	return moods
}

// Len is the number of moods.
func (t Table) Len() int {
	return len(t.moods)
}
