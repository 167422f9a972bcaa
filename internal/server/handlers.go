package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/mutdom/pkg/buildinfo"
	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/pipeline"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// uploadField is the multipart field carrying the kill matrix.
const uploadField = "csv_file"

// AnalyzeResponse is returned by POST /analyze.
type AnalyzeResponse struct {
	ID         string             `json:"id"`
	Dominators []string           `json:"dominators"`
	Stats      *subsumption.Stats `json:"stats,omitempty"`
	Layout     graph.Layout       `json:"layout"`
	Artifacts  map[string]string  `json:"artifacts"` // format -> URL
	Cached     bool               `json:"cached"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type indexData struct {
	Result *AnalyzeResponse
	Error  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, indexData{})
}

// handleForm serves the browser upload form: same analysis as /analyze,
// answered with the HTML page.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	resp, err := s.analyze(w, r)
	if err != nil {
		s.logRequestError(r, err)
		s.renderIndex(w, statusFor(err), indexData{Error: errs.UserMessage(err)})
		return
	}
	s.renderIndex(w, http.StatusOK, indexData{Result: resp})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	resp, err := s.analyze(w, r)
	if err != nil {
		s.logRequestError(r, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := chi.URLParam(r, "format")

	if _, err := uuid.Parse(id); err != nil {
		writeError(w, errs.New(errs.ErrCodeInvalidInput, "invalid analysis id %q", id))
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	data, hit, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.ResultKey(id, format))
	if err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "read artifact"))
		return
	}
	if !hit {
		writeError(w, errs.New(errs.ErrCodeNotFound, "no %s artifact for analysis %s (it may have expired)", format, id))
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Cache-Control", "private, max-age="+strconv.Itoa(int(s.cfg.ResultTTL.Seconds())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

// analyze reads the uploaded kill matrix, runs the pipeline and stores the
// artifacts under a fresh analysis ID.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*AnalyzeResponse, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	csv, name, err := readUpload(r)
	if err != nil {
		return nil, err
	}
	opts, err := s.requestOptions(r)
	if err != nil {
		return nil, err
	}
	opts.Source = name

	result, err := s.runner.Execute(r.Context(), bytes.NewReader(csv), opts)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if err := s.storeArtifacts(r.Context(), id, result.Artifacts); err != nil {
		return nil, err
	}

	resp := &AnalyzeResponse{
		ID:         id,
		Dominators: result.Layout.Dominators,
		Stats:      result.Layout.Stats,
		Layout:     result.Layout,
		Artifacts:  make(map[string]string, len(result.Artifacts)),
		Cached:     result.CacheInfo.AnalyzeHit,
	}
	if resp.Dominators == nil {
		resp.Dominators = []string{}
	}
	for format := range result.Artifacts {
		resp.Artifacts[format] = fmt.Sprintf("/artifacts/%s.%s", id, format)
	}
	s.logger.Info("analysis complete",
		"id", id,
		"source", name,
		"mutants", result.Stats.MutantCount,
		"dominators", len(resp.Dominators),
		"cached", result.CacheInfo.AnalyzeHit)
	return resp, nil
}

func (s *Server) storeArtifacts(ctx context.Context, id string, artifacts map[string][]byte) error {
	for format, data := range artifacts {
		key := s.runner.Keyer.ResultKey(id, format)
		if err := s.runner.Cache.Set(ctx, key, data, s.cfg.ResultTTL); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "store %s artifact", format)
		}
	}
	return nil
}

// requestOptions merges per-request display options into the server
// defaults. Values come from the query string or form fields.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = s.cfg.Formats
	opts.Logger = s.logger

	if v := r.FormValue("viz_type"); v != "" {
		if err := pipeline.ValidateVizType(v); err != nil {
			return opts, err
		}
		opts.VizType = v
	}
	for field, dst := range map[string]*bool{
		"reduce":            &opts.Reduce,
		"detailed":          &opts.Detailed,
		"include_survivors": &opts.IncludeSurvivors,
	} {
		v := r.FormValue(field)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errs.New(errs.ErrCodeInvalidInput, "%s: expected a boolean, got %q", field, v)
		}
		*dst = b
	}
	return opts, nil
}

// readUpload returns the CSV payload and a display name for it. Multipart
// requests carry the file in the csv_file field; any other request is read
// as a raw CSV body.
func readUpload(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", uploadError(err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, "", errs.New(errs.ErrCodeInvalidInput, "empty request body")
		}
		return data, "upload", nil
	}

	f, hdr, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errs.New(errs.ErrCodeInvalidInput, "missing %s file field", uploadField)
		}
		return nil, "", uploadError(err)
	}
	defer f.Close()

	if err := errs.ValidateUploadFilename(hdr.Filename); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", uploadError(err)
	}
	return data, hdr.Filename, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errs.New(errs.ErrCodeTooLarge, "upload exceeds %d bytes", tooLarge.Limit)
	}
	return errs.Wrap(errs.ErrCodeInvalidInput, err, "read upload")
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, data indexData) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render index", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) logRequestError(r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "err", err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
