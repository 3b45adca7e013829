package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikogura/cinescope/pkg/catalog"
)

// Texts shown to end users when no model answer is available.
const (
	UnavailableText    = "Sorry, the AI assistant is not currently available. Please configure your API key."
	InvalidKeyText     = "There was an issue with the API key. Please check your configuration."
	RateLimitedText    = "Too many requests. Please try again in a moment."
	GenericFailureText = "Sorry, I encountered an error. Please try again."
)

// buildSystemPrompt frames the model as the CineScope assistant and lists the
// given movies as grounding context.
func buildSystemPrompt(movies []catalog.Movie) (prompt string) {
	lines := make([]string, 0, len(movies))
	for _, m := range movies {
		lines = append(lines, formatMovieLine(m))
	}

	prompt = fmt.Sprintf(`You are a friendly and knowledgeable movie recommendation assistant for CineScope,
a movie sentiment analysis and recommendation platform.

You help users discover movies based on their preferences, mood, and interests. You can:
- Recommend movies from our database
- Answer questions about movies, genres, directors, and actors
- Help users decide what to watch based on their mood
- Provide brief insights about films without spoilers
- Explain why certain movies might match their preferences

Here are some popular movies in our database:
%s

Guidelines:
- Be conversational and friendly
- Keep responses concise (2-3 sentences usually)
- Focus on recommendations from our database when possible
- Ask clarifying questions if needed
- Don't give away spoilers unless explicitly asked
- If a movie isn't in our database, you can still discuss it but mention we have similar options

Remember: You're helping people find their next favorite movie!`, strings.Join(lines, "\n"))

	return prompt
}

// formatMovieLine renders "- Title (Year): G1, G2, Rating: R/10".
func formatMovieLine(m catalog.Movie) (line string) {
	line = fmt.Sprintf("- %s (%d): %s, Rating: %s/10", m.Title, m.Year, strings.Join(m.Genres, ", "), formatRating(m.Rating))
	return line
}

// formatRating keeps one decimal for whole numbers so 9 prints as 9.0.
func formatRating(r float64) string {
	if r == float64(int64(r)) {
		return strconv.FormatFloat(r, 'f', 1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
