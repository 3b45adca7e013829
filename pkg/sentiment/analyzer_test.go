package sentiment

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/nikogura/cinescope/pkg/failure"
)

type fakeIntensity struct {
	scores Intensity
	err    error
	calls  int
}

func (f *fakeIntensity) Intensity(_ string) (Intensity, error) {
	f.calls++
	return f.scores, f.err
}

type fakeSubjectivity struct {
	scores Subjectivity
	err    error
	calls  int
}

func (f *fakeSubjectivity) Subjectivity(_ string) (Subjectivity, error) {
	f.calls++
	return f.scores, f.err
}

func TestLabel(t *testing.T) {
	tests := []struct {
		compound float64
		want     string
	}{
		{compound: 0.05, want: Positive},
		{compound: 0.9, want: Positive},
		{compound: 0.0499, want: Neutral},
		{compound: 0, want: Neutral},
		{compound: -0.0499, want: Neutral},
		{compound: -0.05, want: Negative},
		{compound: -1, want: Negative},
	}

	for _, tt := range tests {
		if got := Label(tt.compound); got != tt.want {
			t.Errorf("Label(%v): expected %s, got %s", tt.compound, tt.want, got)
		}
	}
}

func TestAnalyzeWithFakes(t *testing.T) {
	in := &fakeIntensity{scores: Intensity{Positive: 0.61234, Neutral: 0.38766, Negative: 0, Compound: -0.63694}}
	sub := &fakeSubjectivity{scores: Subjectivity{Polarity: -0.333333, Subjectivity: 0.666666}}
	a := NewAnalyzerWith(in, sub)

	report, err := a.Analyze("  two words  ")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if report.Sentiment != Negative {
		t.Errorf("Expected negative, got %s", report.Sentiment)
	}
	if report.Emoji != "😞" {
		t.Errorf("Expected sad emoji, got %s", report.Emoji)
	}
	if report.Confidence != 63.69 {
		t.Errorf("Expected confidence 63.69, got %v", report.Confidence)
	}

	want := Scores{Compound: -0.6369, Positive: 0.6123, Neutral: 0.3877, Negative: 0, Polarity: -0.3333, Subjectivity: 0.6667}
	if report.Scores != want {
		t.Errorf("Expected %+v, got %+v", want, report.Scores)
	}
	if report.TextLength != 13 {
		t.Errorf("Expected text length 13, got %d", report.TextLength)
	}
	if report.WordCount != 2 {
		t.Errorf("Expected 2 words, got %d", report.WordCount)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "spaces", text: "   "},
		{name: "mixed whitespace", text: "\t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &fakeIntensity{}
			sub := &fakeSubjectivity{}
			a := NewAnalyzerWith(in, sub)

			_, err := a.Analyze(tt.text)
			if !failure.Is(err, failure.KindEmptyInput) {
				t.Errorf("Expected empty_input, got %v", err)
			}
			if in.calls != 0 || sub.calls != 0 {
				t.Error("Expected no scorer to run on blank input")
			}
		})
	}
}

func TestAnalyzeScorerFailure(t *testing.T) {
	a := NewAnalyzerWith(&fakeIntensity{err: errors.New("boom")}, &fakeSubjectivity{})

	_, err := a.Analyze("text")
	if !failure.Is(err, failure.KindInternal) {
		t.Errorf("Expected internal failure, got %v", err)
	}
}

func TestAnalyzeCountsRunes(t *testing.T) {
	a := NewAnalyzerWith(&fakeIntensity{}, &fakeSubjectivity{})

	report, err := a.Analyze("héllo 😊")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.TextLength != 7 {
		t.Errorf("Expected 7 characters, got %d", report.TextLength)
	}
	if report.Sentiment != Neutral || report.Emoji != "😐" || report.Confidence != 0 {
		t.Errorf("Unexpected neutral report %+v", report)
	}
}

func TestAnalyzeDefaultScorers(t *testing.T) {
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("Failed to build analyzer: %v", err)
	}

	tests := []struct {
		text string
		want string
	}{
		{text: "I loved this movie! It was amazing.", want: Positive},
		{text: "This was the worst, most boring film I have ever seen.", want: Negative},
		{text: "The film is 120 minutes long.", want: Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			report, err := a.Analyze(tt.text)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if report.Sentiment != tt.want {
				t.Errorf("Expected %s, got %s (%+v)", tt.want, report.Sentiment, report.Scores)
			}
			if tt.want != Neutral && report.Confidence <= 0 {
				t.Errorf("Expected positive confidence, got %v", report.Confidence)
			}
			if report.Confidence < 0 || report.Confidence > 100 {
				t.Errorf("Confidence out of range: %v", report.Confidence)
			}
		})
	}
}
