package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/nikogura/cinescope/pkg/assistant"
	"github.com/nikogura/cinescope/pkg/catalog"
	"github.com/nikogura/cinescope/pkg/failure"
	"github.com/nikogura/cinescope/pkg/logging"
	"github.com/nikogura/cinescope/pkg/metrics"
	"github.com/nikogura/cinescope/pkg/recommend"
)

// DefaultTopLimit is the result count for /api/movies/top.
const DefaultTopLimit = 10

const maxBodyBytes = 1 << 20

type analyzeRequest struct {
	Text *string `json:"text" validate:"required"`
}

type recommendationRequest struct {
	Mood  string `json:"mood" validate:"required"`
	Limit *int   `json:"limit"`
}

type askRequest struct {
	Message             string           `json:"message" validate:"required"`
	ConversationHistory []assistant.Turn `json:"conversation_history" validate:"omitempty,dive"`
}

type moviesResponse struct {
	Count  int             `json:"count"`
	Movies []catalog.Movie `json:"movies"`
}

type moodsResponse struct {
	Moods map[string]recommend.MoodSummary `json:"moods"`
}

type healthResponse struct {
	Status         string   `json:"status"`
	MovieCount     int      `json:"movie_count"`
	AvailableMoods []string `json:"available_moods"`
}

// decode reads a JSON body into v. It reports false after writing a 400.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil {
		respondError(w, r, failure.KindValidation, "Invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleAnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateRequest(&req); msg != "" {
		respondError(w, r, failure.KindValidation, msg)
		return
	}

	report, err := s.analyzer.Analyze(*req.Text)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	metrics.RecordSentiment(report.Sentiment)
	respondJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateRequest(&req); msg != "" {
		body := errorResponse{Error: msg, Code: string(failure.KindValidation)}
		if req.Mood == "" {
			body.AvailableMoods = s.recommender.MoodNames()
		}
		respondJSON(w, r, http.StatusBadRequest, body)
		return
	}

	limit := recommend.DefaultMoodLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	report, err := s.recommender.Recommend(req.Mood, limit)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	metrics.RecordRecommendation(report.Mood)
	respondJSON(w, r, http.StatusOK, report)
}

// handleMovies lists the catalog. search and genre narrow the result together;
// a missing or non-positive limit returns everything.
func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	movies := s.recommender.Store().Find(catalog.Query{
		Search: query.Get("search"),
		Genre:  query.Get("genre"),
		Limit:  intParam(r, "limit", 0),
	})
	respondJSON(w, r, http.StatusOK, moviesResponse{Count: len(movies), Movies: movies})
}

func (s *Server) handleTopMovies(w http.ResponseWriter, r *http.Request) {
	movies := s.recommender.Store().TopRated(intParam(r, "limit", DefaultTopLimit))
	respondJSON(w, r, http.StatusOK, moviesResponse{Count: len(movies), Movies: movies})
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	moods := make(map[string]recommend.MoodSummary)
	for _, m := range s.recommender.Moods() {
		moods[m.Name] = m
	}
	respondJSON(w, r, http.StatusOK, moodsResponse{Moods: moods})
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	movie, found := s.recommender.Store().ByID(id)
	if !found {
		respondError(w, r, failure.KindNotFound, "Movie with ID "+strconv.Itoa(id)+" not found")
		return
	}

	respondJSON(w, r, http.StatusOK, movie)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}

	report, err := s.recommender.Similar(id, intParam(r, "limit", recommend.DefaultSimilarLimit))
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleAskAI(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateRequest(&req); msg != "" {
		respondError(w, r, failure.KindValidation, msg)
		return
	}

	reply, err := s.assistant.Chat(r.Context(), req.Message, req.ConversationHistory)
	failed := false

	switch {
	case err != nil:
		respondJSON(w, r, failure.KindOf(err).Status(), errorResponse{
			Error:    err.Error(),
			Code:     string(failure.KindOf(err)),
			Response: reply.Response,
			Success:  &failed,
		})
	case !reply.Available:
		logging.Ctx(r.Context()).Debug().Msg("assistant request while unavailable")
		respondJSON(w, r, http.StatusBadRequest, errorResponse{
			Error:    "AI assistant is not configured",
			Code:     string(failure.KindUpstream),
			Response: reply.Response,
			Success:  &failed,
		})
	default:
		respondJSON(w, r, http.StatusOK, reply)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, healthResponse{
		Status:         "healthy",
		MovieCount:     s.recommender.Store().Len(),
		AvailableMoods: s.recommender.MoodNames(),
	})
}

// movieID parses the {id} path parameter. Anything but an integer is a 404,
// the same as an id that does not exist.
func movieID(w http.ResponseWriter, r *http.Request) (id int, ok bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, failure.KindNotFound, "Movie with ID "+raw+" not found")
		return id, false
	}
	return id, true
}

// intParam reads an integer query parameter, falling back to def when it is
// absent or unparsable.
func intParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
