package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chronoline/pkg/buildinfo"
	"github.com/matzehuels/chronoline/pkg/dataset/store"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/pipeline"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
}

// cacheHeader reports whether a response came from the cache.
const cacheHeader = "X-Chronoline-Cache"

type healthResponse struct {
	Status   string    `json:"status"`
	Version  string    `json:"version"`
	Source   string    `json:"source,omitempty"`
	Persons  int       `json:"persons"`
	LoadedAt time.Time `json:"loaded_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  buildinfo.Version,
		Source:   s.name,
		Persons:  len(s.Dataset().Persons),
		LoadedAt: time.Unix(s.loadedAt.Load(), 0).UTC(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveLayout(w, r, opts)
}

func (s *Server) handleLayoutPost(w http.ResponseWriter, r *http.Request) {
	opts := cloneOptions(s.defaults)
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	s.serveLayout(w, r, opts)
}

func (s *Server) serveLayout(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	d := s.Dataset()
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), d, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := pipeline.MarshalLayout(l)
	if err != nil {
		writeError(w, err)
		return
	}
	setCacheHeader(w, hit)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts, err := optionsFromQuery(r.URL.Query(), s.defaults)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	opts.Dataset = s.Dataset()
	opts.Source = s.name

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(result.Artifacts[format])
}

type personsResponse struct {
	Count   int               `json:"count"`
	Persons []timeline.Person `json:"persons"`
}

func (s *Server) handlePersons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := store.Query{
		Category: q.Get("category"),
		Country:  q.Get("country"),
	}
	if v := q.Get("limit"); v != "" {
		n, err := parseInt("limit", v)
		if err != nil {
			writeError(w, err)
			return
		}
		query.Limit = n
	}

	persons := query.Filter(s.Dataset().Persons)
	if persons == nil {
		persons = []timeline.Person{}
	}
	writeJSON(w, http.StatusOK, personsResponse{Count: len(persons), Persons: persons})
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidatePersonID(id); err != nil {
		writeError(w, err)
		return
	}
	p, err := s.Dataset().Person(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	s.handleHealth(w, r)
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code  apperr.Code `json:"code"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes it as JSON.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Code: apperr.ErrCodeInvalidInput, Error: "request body too large"})
		return
	}
	writeJSON(w, statusFor(err), errorResponse{Code: code, Error: apperr.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case apperr.IsInvalid(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.Is(err, apperr.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(cacheHeader, "hit")
	} else {
		w.Header().Set(cacheHeader, "miss")
	}
}
