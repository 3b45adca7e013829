package catalog

import (
	"github.com/goccy/go-json"
)

// Document is the on-disk catalog layout.
type Document struct {
	Movies []Movie `json:"movies"`
}

// Movie is a single catalog record.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genres      []string `json:"genres"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description"`
	// Extras carries display-only fields (poster, director, ...) untouched.
	Extras map[string]json.RawMessage `json:"-"`
}

//nolint:gochecknoglobals // field names owned by Movie itself
var movieFields = []string{"id", "title", "year", "genres", "rating", "description"}

// movieAlias drops Movie's methods so the codec does not recurse.
type movieAlias Movie

// UnmarshalJSON decodes the known fields and keeps everything else in Extras.
func (m *Movie) UnmarshalJSON(data []byte) (err error) {
	var alias movieAlias
	err = json.Unmarshal(data, &alias)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	err = json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	for _, field := range movieFields {
		delete(raw, field)
	}
	alias.Extras = nil
	if len(raw) > 0 {
		alias.Extras = raw
	}

	*m = Movie(alias)
	return err
}

// Fields returns the record as a flat field map, extras included.
func (m Movie) Fields() (fields map[string]interface{}) {
	fields = make(map[string]interface{}, len(movieFields)+len(m.Extras))
	for k, v := range m.Extras {
		fields[k] = v
	}

	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}

	fields["id"] = m.ID
	fields["title"] = m.Title
	fields["year"] = m.Year
	fields["genres"] = genres
	fields["rating"] = m.Rating
	fields["description"] = m.Description
	return fields
}

// MarshalJSON encodes the known fields followed by any extras.
func (m Movie) MarshalJSON() (data []byte, err error) {
	data, err = json.Marshal(m.Fields())
	return data, err
}

// HasGenre reports whether genre is one of the movie's genres (exact match).
func (m Movie) HasGenre(genre string) (ok bool) {
	for _, g := range m.Genres {
		if g == genre {
			ok = true
			return ok
		}
	}
	return ok
}

// HasAnyGenre reports whether the movie shares at least one genre with genres.
func (m Movie) HasAnyGenre(genres []string) (ok bool) {
	for _, g := range genres {
		if m.HasGenre(g) {
			ok = true
			return ok
		}
	}
	return ok
}
