package server

import (
	"net/http"
	"strconv"

	"github.com/tenkhq/tenk/internal/services/portfolio"
)

// requireUser returns the authenticated user ID or writes a 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := UserFromContext(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}

// handleUpload handles POST /api/portfolio/upload. The body is either a raw
// CSV or a multipart form with a "file" field.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	body := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}

	result, err := s.app.Ingest.Ingest(r.Context(), userID, body)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", userID).Msg("Upload rejected")
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleHistory handles GET /api/portfolio/history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	snaps, err := s.app.Portfolio.History(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "Failed to load history")
		return
	}
	WriteJSON(w, http.StatusOK, snaps)
}

// handleWeights handles GET /api/portfolio/weights.
func (s *Server) handleWeights(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	weights, err := s.app.Portfolio.Weights(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute weights")
		return
	}
	WriteJSON(w, http.StatusOK, weights)
}

// handleTrades handles GET /api/portfolio/trades?limit=N.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	trades, err := s.app.Portfolio.RecentTrades(r.Context(), userID, limit)
	if err != nil {
		s.writeServiceError(w, err, "Failed to load trades")
		return
	}
	WriteJSON(w, http.StatusOK, trades)
}

// handlePerformance handles GET /api/portfolio/performance.
func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	metrics, err := s.app.Portfolio.Performance(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute performance")
		return
	}
	WriteJSON(w, http.StatusOK, metrics)
}

// handleReturns handles GET /api/portfolio/returns.
func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	report, err := s.app.Portfolio.Returns(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute returns")
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// handleComparison handles GET /api/portfolio/comparison?baseline_date=YYYY-MM-DD.
func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	points, err := s.app.Portfolio.Comparison(r.Context(), userID, r.URL.Query().Get("baseline_date"))
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute comparison")
		return
	}
	WriteJSON(w, http.StatusOK, points)
}

// handleChart handles GET /api/portfolio/chart, returning PNG bytes.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	points, err := s.app.Portfolio.Comparison(r.Context(), userID, r.URL.Query().Get("baseline_date"))
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute comparison")
		return
	}
	png, err := portfolio.RenderComparisonChart(points, s.app.Config.Returns.BenchmarkSymbol)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleBadges handles GET /api/portfolio/badges.
func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	badges, err := s.app.Insight.Badges(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "Failed to compute badges")
		return
	}
	WriteJSON(w, http.StatusOK, badges)
}

// handleReview handles POST /api/portfolio/review.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if s.app.Review == nil {
		WriteError(w, http.StatusServiceUnavailable, "Review service not configured")
		return
	}
	text, err := s.app.Review.Review(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, err, "Failed to generate review")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"review": text})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error, message string) {
	s.logger.Error().Err(err).Msg(message)
	WriteError(w, http.StatusInternalServerError, message)
}
