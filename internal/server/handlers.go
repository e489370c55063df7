package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/cellbars/pkg/cache"
	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/pipeline"
	"github.com/matzehuels/cellbars/pkg/table"
)

// Response headers set on rendered artifacts.
const (
	HeaderArtifactID = "X-Artifact-Id"
	HeaderCache      = "X-Cache"
)

// RenderRequest is the body of POST /v1/render.
type RenderRequest struct {
	CSV        string             `json:"csv" validate:"required"`
	Columns    []table.ColumnSpec `json:"columns,omitempty" validate:"max=256"`
	Format     string             `json:"format,omitempty" validate:"omitempty,format"`
	Title      string             `json:"title,omitempty" validate:"max=200"`
	CellWidth  int                `json:"cell_width,omitempty" validate:"gte=0,lte=2000"`
	BarChars   int                `json:"bar_chars,omitempty" validate:"gte=0,lte=400"`
	Standalone bool               `json:"standalone,omitempty"`
	Plain      bool               `json:"plain,omitempty"`
}

// options converts the request into pipeline options.
func (req RenderRequest) options() pipeline.Options {
	format := req.Format
	if format == "" {
		format = pipeline.FormatHTML
	}
	opts := pipeline.Options{
		CSV:        req.CSV,
		Formats:    []string{format},
		Title:      req.Title,
		CellWidth:  req.CellWidth,
		BarChars:   req.BarChars,
		Standalone: req.Standalone,
		Plain:      req.Plain,
	}
	if len(req.Columns) > 0 {
		opts.Spec = &table.Spec{Columns: req.Columns}
	}
	return opts
}

// storedArtifact is the cache record behind GET /v1/artifacts/{id}.
type storedArtifact struct {
	Format string `json:"format"`
	Data   []byte `json:"data"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, cberrors.New(cberrors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, cberrors.Wrap(cberrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, err)
		return
	}

	opts := req.options()
	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			s.logger.Error("render failed", "error", err)
		}
		writeError(w, err)
		return
	}

	format := opts.Formats[0]
	data := result.Artifacts[format]

	id := uuid.NewString()
	if err := s.store(r, id, storedArtifact{Format: format, Data: data}); err != nil {
		s.logger.Warn("store artifact failed", "id", id, "error", err)
	} else {
		w.Header().Set(HeaderArtifactID, id)
		w.Header().Set("Location", "/v1/artifacts/"+id)
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set(HeaderCache, cacheStatus)
	writeArtifact(w, format, data)
}

func (s *Server) store(r *http.Request, id string, a storedArtifact) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return err
	}
	key := s.runner.Keyer.StoredKey(id)
	return cache.RetryWithBackoff(r.Context(), func() error {
		return s.runner.Cache.Set(r.Context(), key, payload, cache.TTLStored)
	})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, cberrors.New(cberrors.ErrCodeInvalidInput, "invalid artifact id %q", id))
		return
	}

	var (
		payload []byte
		ok      bool
	)
	err := cache.RetryWithBackoff(r.Context(), func() error {
		var err error
		payload, ok, err = s.runner.Cache.Get(r.Context(), s.runner.Keyer.StoredKey(id))
		return err
	})
	if err != nil {
		s.logger.Error("load artifact failed", "id", id, "error", err)
		writeError(w, cberrors.Wrap(cberrors.ErrCodeInternal, err, "load artifact"))
		return
	}
	if !ok {
		writeError(w, errNotFound("artifact "+id+" not found"))
		return
	}

	var a storedArtifact
	if err := json.Unmarshal(payload, &a); err != nil {
		writeError(w, cberrors.Wrap(cberrors.ErrCodeInternal, err, "decode artifact"))
		return
	}
	w.Header().Set(HeaderArtifactID, id)
	writeArtifact(w, a.Format, a.Data)
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	ct, ok := pipeline.ContentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
