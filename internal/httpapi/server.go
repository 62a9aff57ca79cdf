// Package httpapi exposes the correction engine over HTTP: POST
// /correct with the request JSON from the engine boundary, GET /health,
// and a usage page at the root. Transport concerns only — the engine
// owns all correction semantics.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/valpere/pravka/internal/edit"
	"github.com/valpere/pravka/internal/engine"
	"github.com/valpere/pravka/internal/markdown"
	"github.com/valpere/pravka/internal/rules"
)

// Version reported by /health.
const Version = "0.1.0"

type Server struct {
	engine *engine.Engine
	log    *slog.Logger
}

func New(eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: eng, log: logger}
}

// Router builds the chi router with request-ID and logging middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/correct", s.handleCorrect)

	return r
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("http api listening", "addr", addr)
	return srv.ListenAndServe()
}

// requestID tags every request with an X-Request-ID and logs its
// outcome.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug("request handled",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"ms", float64(time.Since(start).Microseconds())/1000.0)
	})
}

// correctionRequest is the engine boundary request JSON.
type correctionRequest struct {
	Text        string `json:"text"`
	Mode        string `json:"mode"`
	ReturnEdits *bool  `json:"return_edits"`
}

type editJSON struct {
	Offset      int    `json:"offset"`
	Length      int    `json:"length"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Message     string `json:"message"`
}

type correctionResponse struct {
	Result string       `json:"result"`
	Edits  []editJSON   `json:"edits"`
	Stats  engine.Stats `json:"stats"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Detail: err.Error()})
		return
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Detail: "text is required"})
		return
	}

	mode := rules.ModeLegal
	if req.Mode != "" {
		parsed, err := rules.ParseMode(req.Mode)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request", Detail: err.Error()})
			return
		}
		mode = parsed
	}

	returnEdits := true
	if req.ReturnEdits != nil {
		returnEdits = *req.ReturnEdits
	}

	result, err := s.engine.Correct(r.Context(), engine.Request{
		Text:        req.Text,
		Mode:        mode,
		ReturnEdits: returnEdits,
	})
	if err != nil {
		var tooLong *engine.TextTooLongError
		if errors.As(err, &tooLong) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text too long", Detail: tooLong.Error()})
			return
		}
		s.log.Error("correction failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Detail: "error processing text correction"})
		return
	}

	writeJSON(w, http.StatusOK, correctionResponse{
		Result: result.Text,
		Edits:  toEditJSON(result.Edits),
		Stats:  result.Stats,
	})
}

func toEditJSON(edits []edit.Edit) []editJSON {
	out := make([]editJSON, 0, len(edits))
	for _, e := range edits {
		out = append(out, editJSON{
			Offset:      e.Offset,
			Length:      e.Length,
			Original:    e.Original,
			Replacement: e.Replacement,
			Message:     e.Message,
		})
	}
	return out
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: Version})
}

const usageDoc = `# pravka

Russian text correction service.

## POST /correct

` + "```json" + `
{"text": "Он сказал \"привет\"", "mode": "legal", "return_edits": true}
` + "```" + `

Modes:

- **base** — checker corrections only
- **legal** — typography and legal document formatting (default)
- **strict** — legal plus aggressive whitespace normalization

Returns the corrected text, the list of applied edits (offsets refer to
the normalized input), and processing statistics.

## GET /health

Service status and version.
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markdown.ToHTML([]byte(usageDoc))))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
