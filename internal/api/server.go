package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajitpratap0/campus-advisor/internal/calendar"
	"github.com/ajitpratap0/campus-advisor/internal/catalog"
	"github.com/ajitpratap0/campus-advisor/internal/chat"
	"github.com/ajitpratap0/campus-advisor/internal/models"
	"github.com/ajitpratap0/campus-advisor/internal/store"
)

// maxBodyBytes limits request bodies; chat histories can be long.
const maxBodyBytes = 4 << 20

const calendarFailureMessage = "Failed to create calendar event. Make sure Google Calendar MCP is properly configured."

// Chatter answers a conversation.
type Chatter interface {
	Run(ctx context.Context, history []models.Message) (models.Message, error)
}

// CalendarWriter creates calendar events.
type CalendarWriter interface {
	CreateEvent(ctx context.Context, in calendar.EventInput) (any, error)
}

// Server is an HTTP API server that exposes the advisor's operations.
type Server struct {
	store     store.Store
	chat      Chatter
	calendar  CalendarWriter
	mcp       http.Handler // nil = /mcp not mounted
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server with the given dependencies.
func NewServer(st store.Store, ch Chatter, cal CalendarWriter, mcpHandler http.Handler, logger *slog.Logger, authToken string) *Server {
	return &Server{
		store:     st,
		chat:      ch,
		calendar:  cal,
		mcp:       mcpHandler,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check and metrics: no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /debug/vars", expvar.Handler())

	mux.HandleFunc("POST /chat", s.auth(s.handleChat))
	mux.HandleFunc("GET /teacher-ratings", s.auth(s.handleTeacherRatings))
	mux.HandleFunc("GET /courses/search", s.auth(s.handleCourseSearch))
	mux.HandleFunc("POST /calendar/add", s.auth(s.handleCalendarAdd))
	if s.mcp != nil {
		mux.Handle("/mcp", s.auth(s.mcp.ServeHTTP))
	}

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// chatRequest is the body accepted by POST /chat.
type chatRequest struct {
	Messages []models.Message `json:"messages"`
}

// chatResponse is returned by POST /chat.
type chatResponse struct {
	Message models.Message `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusInternalServerError, "invalid request body: "+err.Error())
		return
	}

	reply, err := s.chat.Run(r.Context(), req.Messages)
	switch {
	case errors.Is(err, chat.ErrIncomplete):
		s.logger.Warn("chat turn incomplete", "error", err)
	case err != nil:
		s.logger.Error("chat failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{Message: reply})
}

func (s *Server) handleTeacherRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := catalog.TeacherRatings(r.Context(), s.store, r.URL.Query().Get("teacher_name"))
	if err != nil {
		s.logger.Error("failed to fetch teacher ratings", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch teacher ratings")
		return
	}
	s.writeJSON(w, http.StatusOK, ratings)
}

// courseSearchResponse is returned by GET /courses/search.
type courseSearchResponse struct {
	Courses []models.CourseSummary `json:"courses"`
}

func (s *Server) handleCourseSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := catalog.DefaultSummaryLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	courses, err := catalog.SearchSummaries(r.Context(), s.store, q.Get("q"), limit)
	if err != nil {
		s.logger.Error("failed to search courses", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to search courses")
		return
	}
	s.writeJSON(w, http.StatusOK, courseSearchResponse{Courses: courses})
}

func (s *Server) handleCalendarAdd(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var in calendar.EventInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeJSON(w, http.StatusInternalServerError, models.CalendarResult{Success: false, Error: err.Error()})
		return
	}

	if s.calendar == nil {
		s.writeJSON(w, http.StatusBadRequest, models.CalendarResult{Success: false, Message: calendar.NotConfiguredMessage})
		return
	}

	event, err := s.calendar.CreateEvent(r.Context(), in)
	switch {
	case errors.Is(err, calendar.ErrNotConfigured):
		s.writeJSON(w, http.StatusBadRequest, models.CalendarResult{Success: false, Message: calendar.NotConfiguredMessage})
		return
	case err != nil:
		s.logger.Error("calendar error", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, models.CalendarResult{
			Success: false,
			Error:   err.Error(),
			Message: calendarFailureMessage,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, models.CalendarResult{
		Success: true,
		Event:   event,
		Message: "Calendar event created successfully",
	})
}

// --- helpers ---

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
