// Package sentiment scores free text and reports a label, a confidence and the
// underlying sub-scores.
package sentiment

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jonreiter/govader"
	"github.com/pkg/errors"

	"github.com/nikogura/cinescope/pkg/failure"
)

// Labels.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// Threshold is the compound score at or beyond which text is no longer neutral.
const Threshold = 0.05

var emojis = map[string]string{ //nolint:gochecknoglobals // fixed lookup
	Positive: "😊",
	Negative: "😞",
	Neutral:  "😐",
}

// Intensity is a rule-based valence breakdown. Compound is in [-1,1].
type Intensity struct {
	Positive float64
	Neutral  float64
	Negative float64
	Compound float64
}

// Subjectivity is a polarity in [-1,1] and a subjectivity in [0,1].
type Subjectivity struct {
	Polarity     float64
	Subjectivity float64
}

// IntensityScorer produces the compound score the label is derived from.
type IntensityScorer interface {
	Intensity(text string) (Intensity, error)
}

// SubjectivityScorer produces the secondary polarity reading.
type SubjectivityScorer interface {
	Subjectivity(text string) (Subjectivity, error)
}

// Scores holds every sub-score rounded to four places.
type Scores struct {
	Compound     float64 `json:"compound"`
	Positive     float64 `json:"positive"`
	Neutral      float64 `json:"neutral"`
	Negative     float64 `json:"negative"`
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// Report is the outcome of one analysis.
type Report struct {
	Sentiment  string  `json:"sentiment"`
	Emoji      string  `json:"emoji"`
	Confidence float64 `json:"confidence"`
	Scores     Scores  `json:"scores"`
	TextLength int     `json:"text_length"`
	WordCount  int     `json:"word_count"`
}

// Vader adapts govader to IntensityScorer.
type Vader struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVader loads the VADER lexicon.
func NewVader() (v *Vader) {
	v = &Vader{analyzer: govader.NewSentimentIntensityAnalyzer()}
	return v
}

// Intensity implements IntensityScorer.
func (v *Vader) Intensity(text string) (scores Intensity, err error) {
	s := v.analyzer.PolarityScores(text)
	scores = Intensity{
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
		Compound: s.Compound,
	}
	return scores, err
}

// Analyzer combines an intensity scorer and a subjectivity scorer. Both are
// read-only after construction so one Analyzer serves concurrent callers.
type Analyzer struct {
	intensity    IntensityScorer
	subjectivity SubjectivityScorer
}

// NewAnalyzer builds an Analyzer with VADER and the embedded lexicon.
func NewAnalyzer() (a *Analyzer, err error) {
	var lex *Lexicon
	lex, err = DefaultLexicon()
	if err != nil {
		err = errors.Wrap(err, "failed to load subjectivity lexicon")
		return a, err
	}

	a = NewAnalyzerWith(NewVader(), lex)
	return a, err
}

// NewAnalyzerWith builds an Analyzer from explicit scorers.
func NewAnalyzerWith(intensity IntensityScorer, subjectivity SubjectivityScorer) (a *Analyzer) {
	a = &Analyzer{
		intensity:    intensity,
		subjectivity: subjectivity,
	}
	return a
}

// Analyze scores text. Blank input is rejected before any scorer runs.
func (a *Analyzer) Analyze(text string) (report Report, err error) {
	if strings.TrimSpace(text) == "" {
		err = failure.New(failure.KindEmptyInput, "Text is required")
		return report, err
	}

	var in Intensity
	in, err = a.intensity.Intensity(text)
	if err != nil {
		err = failure.Wrap(failure.KindInternal, err, "intensity scoring failed")
		return report, err
	}

	var sub Subjectivity
	sub, err = a.subjectivity.Subjectivity(text)
	if err != nil {
		err = failure.Wrap(failure.KindInternal, err, "subjectivity scoring failed")
		return report, err
	}

	label := Label(in.Compound)

	report = Report{
		Sentiment:  label,
		Emoji:      emojis[label],
		Confidence: round(math.Abs(in.Compound)*100, 2),
		Scores: Scores{
			Compound:     round(in.Compound, 4),
			Positive:     round(in.Positive, 4),
			Neutral:      round(in.Neutral, 4),
			Negative:     round(in.Negative, 4),
			Polarity:     round(sub.Polarity, 4),
			Subjectivity: round(sub.Subjectivity, 4),
		},
		TextLength: utf8.RuneCountInString(text),
		WordCount:  len(strings.Fields(text)),
	}
	return report, err
}

// Label maps a compound score onto positive, negative or neutral.
func Label(compound float64) (label string) {
	switch {
	case compound >= Threshold:
		label = Positive
	case compound <= -Threshold:
		label = Negative
	default:
		label = Neutral
	}
	return label
}

// Emoji returns the glyph shown next to a label.
func Emoji(label string) string {
	return emojis[label]
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
