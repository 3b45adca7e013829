package sentiment

import (
	_ "embed"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// NegationFactor scales the polarity of a negated word.
const NegationFactor = -0.5

// Lexicon scores polarity and subjectivity from a word list. Each sentiment
// word may be modified by an immediately preceding intensifier and a negation
// within the two tokens before it.
type Lexicon struct {
	words        map[string][2]float64
	negations    map[string]struct{}
	intensifiers map[string]float64
}

type lexiconFile struct {
	Words        map[string][]float64 `yaml:"words"`
	Negations    []string             `yaml:"negations"`
	Intensifiers map[string]float64   `yaml:"intensifiers"`
}

// DefaultLexicon parses the embedded word list.
func DefaultLexicon() (lex *Lexicon, err error) {
	lex, err = ParseLexicon(defaultLexicon)
	return lex, err
}

// ParseLexicon builds a Lexicon from its YAML form.
func ParseLexicon(data []byte) (lex *Lexicon, err error) {
	var file lexiconFile
	err = yaml.Unmarshal(data, &file)
	if err != nil {
		err = errors.Wrap(err, "failed to parse lexicon YAML")
		return lex, err
	}

	if len(file.Words) == 0 {
		err = errors.New("lexicon has no words")
		return lex, err
	}

	lex = &Lexicon{
		words:        make(map[string][2]float64, len(file.Words)),
		negations:    make(map[string]struct{}, len(file.Negations)),
		intensifiers: make(map[string]float64, len(file.Intensifiers)),
	}

	for word, pair := range file.Words {
		if len(pair) != 2 {
			err = errors.Errorf("lexicon word %q needs [polarity, subjectivity]", word)
			return nil, err
		}
		if pair[0] < -1 || pair[0] > 1 || pair[1] < 0 || pair[1] > 1 {
			err = errors.Errorf("lexicon word %q has out of range scores %v", word, pair)
			return nil, err
		}
		lex.words[strings.ToLower(word)] = [2]float64{pair[0], pair[1]}
	}

	for _, n := range file.Negations {
		lex.negations[strings.ToLower(n)] = struct{}{}
	}

	for word, factor := range file.Intensifiers {
		lex.intensifiers[strings.ToLower(word)] = factor
	}

	return lex, err
}

// Subjectivity implements SubjectivityScorer. Text without sentiment words
// scores zero on both axes.
func (l *Lexicon) Subjectivity(text string) (result Subjectivity, err error) {
	tokens := tokenize(text)

	var polarity, subjectivity float64
	var hits int

	for i, tok := range tokens {
		scores, ok := l.words[tok]
		if !ok {
			continue
		}

		p, s := scores[0], scores[1]

		if i > 0 {
			if factor, ok := l.intensifiers[tokens[i-1]]; ok {
				p *= factor
				s *= factor
			}
		}

		if l.negated(tokens, i) {
			p *= NegationFactor
		}

		polarity += p
		subjectivity += s
		hits++
	}

	if hits == 0 {
		return result, err
	}

	result = Subjectivity{
		Polarity:     clamp(polarity/float64(hits), -1, 1),
		Subjectivity: clamp(subjectivity/float64(hits), 0, 1),
	}
	return result, err
}

func (l *Lexicon) negated(tokens []string, i int) (ok bool) {
	for j := i - 1; j >= 0 && j >= i-2; j-- {
		if _, ok = l.negations[tokens[j]]; ok {
			return ok
		}
	}
	return false
}

// tokenize lowercases text and splits it into words, keeping apostrophes so
// contractions like "didn't" survive.
func tokenize(text string) (tokens []string) {
	tokens = strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for i, tok := range tokens {
		tokens[i] = strings.Trim(tok, "'")
	}
	return tokens
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
