package catalog

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/nikogura/cinescope/pkg/logging"
)

// Read fetches, parses and validates the catalog at location.
func Read(ctx context.Context, location string) (movies []Movie, err error) {
	var raw []byte
	raw, err = Fetch(ctx, location)
	if err != nil {
		return movies, err
	}

	movies, err = Parse(raw)
	if err != nil {
		err = errors.Wrapf(err, "invalid catalog: %s", location)
		return movies, err
	}

	return movies, err
}

// Parse decodes and validates a catalog document.
func Parse(raw []byte) (movies []Movie, err error) {
	var doc Document
	err = json.Unmarshal(raw, &doc)
	if err != nil {
		err = errors.Wrap(err, "failed to parse catalog JSON")
		return movies, err
	}

	err = doc.Validate()
	if err != nil {
		err = errors.Wrap(err, "catalog validation failed")
		return movies, err
	}

	movies = doc.Movies
	return movies, err
}

// Load reads the catalog at location. It never fails: a missing or malformed
// source is logged and yields an empty store.
func Load(ctx context.Context, location string) (store *Store) {
	movies, err := Read(ctx, location)
	if err != nil {
		logging.Warn().Err(err).Str("location", location).Msg("catalog unavailable, continuing with an empty catalog")
		store = Empty()
		return store
	}

	logging.Info().Int("movies", len(movies)).Str("location", location).Msg("catalog loaded")
	store = NewStore(movies)
	return store
}

// Validate checks that ids are unique and ratings lie within [0,10].
func (d *Document) Validate() (err error) {
	seen := make(map[int]bool, len(d.Movies))
	for i, m := range d.Movies {
		if seen[m.ID] {
			err = errors.Errorf("duplicate movie id %d at index %d", m.ID, i)
			return err
		}
		seen[m.ID] = true

		if m.Rating < 0 || m.Rating > 10 {
			err = errors.Errorf("movie %d has rating %v outside [0,10]", m.ID, m.Rating)
			return err
		}
	}

	return err
}
