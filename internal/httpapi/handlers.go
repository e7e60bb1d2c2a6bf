// Package httpapi exposes the posts procedures over HTTP. Route names
// mirror the dashboard's remote-procedure surface (posts.getAll,
// posts.getOne, ...) so the client contract carries over unchanged.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Abhijit47/blog-api/internal/apperr"
	"github.com/Abhijit47/blog-api/internal/auth"
	"github.com/Abhijit47/blog-api/internal/logger"
	"github.com/Abhijit47/blog-api/internal/posts"
	"github.com/Abhijit47/blog-api/internal/repository"
)

// Pagination carries the configured list bounds. PageSize outside
// [MinPageSize, MaxPageSize] is rejected, never clamped.
type Pagination struct {
	DefaultPage     int
	DefaultPageSize int
	MinPageSize     int
	MaxPageSize     int
}

// Server holds the procedure handlers.
type Server struct {
	svc  *posts.Service
	gate *auth.Gate
	log  *logger.Logger
	pg   Pagination
}

func New(svc *posts.Service, gate *auth.Gate, log *logger.Logger, pg Pagination) *Server {
	return &Server{svc: svc, gate: gate, log: log, pg: pg}
}

// Routes wires every procedure behind the access-control gate.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/posts.getAll", s.gate.Require(http.HandlerFunc(s.getAllHandler)))
	mux.Handle("/api/posts.getOne", s.gate.Require(http.HandlerFunc(s.getOneHandler)))
	mux.Handle("/api/posts.create", s.gate.Require(http.HandlerFunc(s.createHandler)))
	mux.Handle("/api/posts.update", s.gate.Require(http.HandlerFunc(s.updateHandler)))
	mux.Handle("/api/posts.remove", s.gate.Require(http.HandlerFunc(s.removeHandler)))
	return mux
}

// getAllHandler handles GET /api/posts.getAll?page=&pageSize=&q=
func (s *Server) getAllHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, "http/posts.getAll", apperr.New(apperr.CodeUnauthenticated, "no session"))
		return
	}

	q := repository.ListQuery{
		Page:     s.pg.DefaultPage,
		PageSize: s.pg.DefaultPageSize,
		Q:        r.URL.Query().Get("q"),
	}
	var err error
	if raw := r.URL.Query().Get("page"); raw != "" {
		if q.Page, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, "http/posts.getAll", apperr.New(apperr.CodeValidation, "page must be an integer"))
			return
		}
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if q.PageSize, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, "http/posts.getAll", apperr.New(apperr.CodeValidation, "pageSize must be an integer"))
			return
		}
	}

	if err := (validation.Errors{
		"page":     validation.Validate(q.Page, validation.Min(1)),
		"pageSize": validation.Validate(q.PageSize, validation.Min(s.pg.MinPageSize), validation.Max(s.pg.MaxPageSize)),
	}).Filter(); err != nil {
		s.writeError(w, "http/posts.getAll", apperr.Wrap(apperr.CodeValidation, err.Error(), err))
		return
	}

	page, err := s.svc.GetAll(r.Context(), ownerID, q)
	if err != nil {
		s.writeError(w, "http/posts.getAll", err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

// getOneHandler handles GET /api/posts.getOne?id=
func (s *Server) getOneHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, "http/posts.getOne", apperr.New(apperr.CodeUnauthenticated, "no session"))
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, "http/posts.getOne", apperr.New(apperr.CodeValidation, "id is required"))
		return
	}

	post, err := s.svc.GetOne(r.Context(), ownerID, id)
	if err != nil {
		s.writeError(w, "http/posts.getOne", err)
		return
	}
	s.writeJSON(w, http.StatusOK, post)
}

// createHandler handles POST /api/posts.create. Body is optional; when
// title/content are omitted the server synthesizes placeholder content.
func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, "http/posts.create", apperr.New(apperr.CodeUnauthenticated, "no session"))
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, "http/posts.create", apperr.New(apperr.CodeValidation, "method not allowed"))
		return
	}

	var in posts.CreateInput
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			s.writeError(w, "http/posts.create", apperr.New(apperr.CodeValidation, "invalid request body"))
			return
		}
		defer r.Body.Close()
	}

	res, err := s.svc.Create(r.Context(), ownerID, in)
	if err != nil {
		s.writeError(w, "http/posts.create", err)
		return
	}
	s.log.Info("http/posts.create", "post created id="+res.ID)
	s.writeJSON(w, http.StatusOK, res)
}

type updateRequest struct {
	PostID  string  `json:"postId"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (in updateRequest) Validate() error {
	if err := validation.Validate(in.PostID, validation.Required); err != nil {
		return errors.New("postId is required")
	}
	if in.Title == nil && in.Content == nil {
		return errors.New("at least one of title or content is required")
	}
	return nil
}

// updateHandler handles POST /api/posts.update with a partial body.
func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, "http/posts.update", apperr.New(apperr.CodeUnauthenticated, "no session"))
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, "http/posts.update", apperr.New(apperr.CodeValidation, "method not allowed"))
		return
	}

	var in updateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, "http/posts.update", apperr.New(apperr.CodeValidation, "invalid request body"))
		return
	}
	defer r.Body.Close()

	if err := in.Validate(); err != nil {
		s.writeError(w, "http/posts.update", apperr.Wrap(apperr.CodeValidation, err.Error(), err))
		return
	}

	err := s.svc.Update(r.Context(), ownerID, posts.UpdateInput{
		PostID:  in.PostID,
		Title:   in.Title,
		Content: in.Content,
	})
	if err != nil {
		s.writeError(w, "http/posts.update", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": in.PostID})
}

// removeHandler handles POST /api/posts.remove with {"id": "..."}.
func (s *Server) removeHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		s.writeError(w, "http/posts.remove", apperr.New(apperr.CodeUnauthenticated, "no session"))
		return
	}
	if r.Method != http.MethodPost {
		s.writeError(w, "http/posts.remove", apperr.New(apperr.CodeValidation, "method not allowed"))
		return
	}

	var in struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, "http/posts.remove", apperr.New(apperr.CodeValidation, "invalid request body"))
		return
	}
	defer r.Body.Close()

	if in.ID == "" {
		s.writeError(w, "http/posts.remove", apperr.New(apperr.CodeValidation, "id is required"))
		return
	}

	if err := s.svc.Remove(r.Context(), ownerID, in.ID); err != nil {
		s.writeError(w, "http/posts.remove", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": in.ID})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("http", "failed to encode response", err)
	}
}

// writeError maps the error taxonomy to HTTP statuses. Storage failures stay
// opaque to the caller; the detail goes to the log only.
func (s *Server) writeError(w http.ResponseWriter, module string, err error) {
	code := apperr.CodeOf(err)

	status := http.StatusInternalServerError
	message := "internal error"
	switch code {
	case apperr.CodeUnauthenticated:
		status = http.StatusUnauthorized
		message = errMessage(err)
	case apperr.CodeNotFound:
		status = http.StatusNotFound
		message = errMessage(err)
	case apperr.CodeValidation:
		status = http.StatusBadRequest
		message = errMessage(err)
	default:
		s.log.Error(module, "request failed", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": message,
		},
	})
}

func errMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
