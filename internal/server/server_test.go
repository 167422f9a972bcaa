package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mutdom/pkg/cache"
	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/observability"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

const killsCSV = `TestNo,MutantNo,[FAIL | TIME | EXC]
t1,1,FAIL
t2,1,FAIL
t1,2,FAIL
t3,3,FAIL
t2,4,TIME
`

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	logger := log.New(&bytes.Buffer{})
	s, err := New(cfg, pipeline.NewRunner(c, nil, logger), logger)
	require.NoError(t, err)
	return s
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(uploadField, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Version)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `name="csv_file"`)
}

func TestAnalyzeMultipart(t *testing.T) {
	s := newTestServer(t, Config{})

	body, ctype := multipartBody(t, "kills.csv", killsCSV, nil)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, []string{"2", "3"}, resp.Dominators)
	require.NotNil(t, resp.Stats)
	assert.Equal(t, 3, resp.Stats.Mutants)
	assert.Equal(t, 3, resp.Stats.Groups)
	assert.Len(t, resp.Layout.Nodes, 3)
	assert.Equal(t, graph.VizTypeLayered, resp.Layout.VizType)

	for _, format := range DefaultFormats {
		url, ok := resp.Artifacts[format]
		require.True(t, ok, "missing artifact %s", format)
		assert.Equal(t, "/artifacts/"+resp.ID+"."+format, url)
	}

	// The stored artifact is served back.
	req = httptest.NewRequest(http.MethodGet, resp.Artifacts["svg"], nil)
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
}

func TestAnalyzeRawBody(t *testing.T) {
	s := newTestServer(t, Config{Formats: []string{pipeline.FormatJSON, pipeline.FormatDOT}})

	req := httptest.NewRequest(http.MethodPost, "/analyze?include_survivors=true&viz_type=nodelink", strings.NewReader(killsCSV))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	// Mutant 4 was never killed: its empty kill set subsumes every group.
	assert.Equal(t, []string{"4"}, resp.Dominators)
	assert.Equal(t, graph.VizTypeNodelink, resp.Layout.VizType)
	assert.Contains(t, resp.Layout.DOT, "digraph")
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		req        func(t *testing.T) *http.Request
		cfg        Config
		wantStatus int
		wantCode   string
	}{
		{
			name: "empty body",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(""))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "bad header",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("a,b,c\n1,2,3\n"))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CSV",
		},
		{
			name: "unknown result",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze",
					strings.NewReader("TestNo,MutantNo,[FAIL | TIME | EXC]\nt1,1,PASS\n"))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_CSV",
		},
		{
			name: "wrong extension",
			req: func(t *testing.T) *http.Request {
				body, ctype := multipartBody(t, "kills.txt", killsCSV, nil)
				r := httptest.NewRequest(http.MethodPost, "/analyze", body)
				r.Header.Set("Content-Type", ctype)
				return r
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "bad viz type",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze?viz_type=radial", strings.NewReader(killsCSV))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_VIZ_TYPE",
		},
		{
			name: "bad boolean",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze?reduce=maybe", strings.NewReader(killsCSV))
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name: "upload too large",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(killsCSV))
			},
			cfg:        Config{MaxUploadBytes: 16},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "TOO_LARGE",
		},
		{
			name: "too many mutants",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(killsCSV))
			},
			cfg:        Config{Defaults: pipeline.Options{MaxMutants: 2}},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.cfg)
			w := httptest.NewRecorder()
			s.ServeHTTP(w, tt.req(t))

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestArtifactErrors(t *testing.T) {
	s := newTestServer(t, Config{})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/artifacts/not-a-uuid.svg", http.StatusBadRequest},
		{"/artifacts/2b1f7f0e-8f6b-4a57-9a43-3f1f64c0c5a1.gif", http.StatusBadRequest},
		{"/artifacts/2b1f7f0e-8f6b-4a57-9a43-3f1f64c0c5a1.svg", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.wantStatus, w.Code, tt.path)
	}
}

func TestFormSubmission(t *testing.T) {
	s := newTestServer(t, Config{})

	body, ctype := multipartBody(t, "kills.csv", killsCSV, map[string]string{"reduce": "true"})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	html := w.Body.String()
	assert.Contains(t, html, "Dominator mutants")
	assert.Contains(t, html, "<p class=\"dominators\">2, 3</p>")
	assert.Contains(t, html, "/artifacts/")

	// Errors are shown on the page.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("nope"))
	req.Header.Set("Content-Type", "text/csv")
	w = httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `class="error"`)
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	observability.NewPrometheusHooks(reg).Install()

	s := newTestServer(t, Config{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mutdom_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestNewRejectsBadFormats(t *testing.T) {
	_, err := New(Config{Formats: []string{"gif"}}, nil, log.New(&bytes.Buffer{}))
	assert.Error(t, err)
}

func TestListenAndServeShutdown(t *testing.T) {
	s := newTestServer(t, Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
