package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/chronoline/pkg/cache"
	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/dataset/store"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/observability"
	"github.com/matzehuels/chronoline/pkg/pipeline"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

var samplePath = filepath.Join("..", "..", "pkg", "dataset", "testdata", "people.json")

var (
	_ DatasetSource = (*store.Store)(nil)
	_ DatasetSource = FileSource{}
	_ DatasetSource = StaticSource{}
)

func loadSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Load(samplePath)
	require.NoError(t, err)
	return d
}

func newTestServer(t *testing.T, defaults pipeline.Options) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(c, nil, nil)
	t.Cleanup(func() { runner.Close() })

	srv, err := New(context.Background(), Config{
		Source:   StaticSource{D: loadSample(t)},
		Name:     "people.json",
		Runner:   runner,
		Defaults: defaults,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeError(t *testing.T, body []byte) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestNew_RequiresSource(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNew_SourceError(t *testing.T) {
	_, err := New(context.Background(), Config{Source: failingSource{}})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := get(t, ts, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h healthResponse
	require.NoError(t, json.Unmarshal(body, &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "people.json", h.Source)
	assert.Equal(t, 5, h.Persons)
	assert.False(t, h.LoadedAt.IsZero())
}

func TestSecurityHeaders(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, _ := get(t, ts, "/healthz")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'none'")
}

func TestLayout_Get(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := get(t, ts, "/api/layout?group=country")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "miss", resp.Header.Get(cacheHeader))

	l, err := pipeline.UnmarshalLayout(body)
	require.NoError(t, err)
	assert.Equal(t, timeline.GroupByCountry, l.Grouping)
	assert.Equal(t, 5, l.PersonCount())

	resp, _ = get(t, ts, "/api/layout?group=country")
	assert.Equal(t, "hit", resp.Header.Get(cacheHeader))
}

func TestLayout_DefaultsApply(t *testing.T) {
	start, end := 1400, 1800
	ts := newTestServer(t, pipeline.Options{Start: &start, End: &end})

	_, body := get(t, ts, "/api/layout")
	l, err := pipeline.UnmarshalLayout(body)
	require.NoError(t, err)
	assert.Equal(t, 2, l.PersonCount(), "only Leonardo and Newton overlap 1400..1800")

	// The query overrides the default window without changing it for later requests.
	_, body = get(t, ts, "/api/layout?start=-800&end=2000")
	l, err = pipeline.UnmarshalLayout(body)
	require.NoError(t, err)
	assert.Equal(t, 5, l.PersonCount())

	_, body = get(t, ts, "/api/layout")
	l, err = pipeline.UnmarshalLayout(body)
	require.NoError(t, err)
	assert.Equal(t, 2, l.PersonCount())
}

func TestLayout_Post(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := post(t, ts, "/api/layout", `{"grouping":"none","start":-500,"end":0}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	l, err := pipeline.UnmarshalLayout(body)
	require.NoError(t, err)
	assert.Equal(t, timeline.GroupByNone, l.Grouping)
	assert.Equal(t, 3, l.PersonCount())
}

func TestLayout_PostUnknownField(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := post(t, ts, "/api/layout", `{"groupin":"none"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeInvalidInput, decodeError(t, body).Code)
}

func TestLayout_BadParameters(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	tests := []struct {
		query string
		code  apperr.Code
	}{
		{"group=era", apperr.ErrCodeInvalidGrouping},
		{"start=abc", apperr.ErrCodeInvalidInput},
		{"ppy=fast", apperr.ErrCodeInvalidInput},
		{"hide_empty=maybe", apperr.ErrCodeInvalidInput},
		{"start=1500&end=1000", apperr.ErrCodeInvalidRange},
		{"viewport_height=0.001", apperr.ErrCodeInvalidInput},
		{"ppy=NaN", apperr.ErrCodeInvalidInput},
		{"ppy=Inf", apperr.ErrCodeInvalidInput},
		{"left_padding=NaN", apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, ts, "/api/layout?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, body).Code)
		})
	}
}

func TestTimeline_SVG(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := get(t, ts, "/api/timeline.svg?group=category&achievements=1")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "<svg")
	assert.Contains(t, string(body), "Principia")
	assert.Equal(t, "miss", resp.Header.Get(cacheHeader))

	resp, again := get(t, ts, "/api/timeline.svg?group=category&achievements=1")
	assert.Equal(t, "hit", resp.Header.Get(cacheHeader))
	assert.Equal(t, body, again)
}

func TestTimeline_Text(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := get(t, ts, "/api/timeline.txt?width=80")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "=")
	assert.False(t, strings.Contains(string(body), "<svg"))
}

func TestTimeline_Errors(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := get(t, ts, "/api/timeline.gif")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeInvalidFormat, decodeError(t, body).Code)

	resp, body = get(t, ts, "/api/timeline.svg?group=era")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeInvalidGrouping, decodeError(t, body).Code)

	resp, body = get(t, ts, "/api/timeline.svg?theme=sepia")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeInvalidInput, decodeError(t, body).Code)
}

func TestPersons(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	tests := []struct {
		query string
		names []string
	}{
		{"", []string{"Pericles", "Archimedes", "Augustus", "Leonardo da Vinci", "Isaac Newton"}},
		{"category=Science", []string{"Archimedes", "Isaac Newton"}},
		{"country=Greece", []string{"Pericles", "Archimedes"}},
		{"category=Politics&country=Rome", []string{"Augustus"}},
		{"limit=2", []string{"Pericles", "Archimedes"}},
		{"category=Music", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, ts, "/api/persons?"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var pr personsResponse
			require.NoError(t, json.Unmarshal(body, &pr))
			assert.Equal(t, len(tt.names), pr.Count)
			names := make([]string, 0, len(pr.Persons))
			for _, p := range pr.Persons {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}

	resp, body := get(t, ts, "/api/persons?limit=many")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodeInvalidInput, decodeError(t, body).Code)
}

func TestPerson(t *testing.T) {
	ts := newTestServer(t, pipeline.Options{})

	resp, body := get(t, ts, "/api/persons/newton")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p timeline.Person
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "Isaac Newton", p.Name)
	assert.Len(t, p.Achievements, 2)

	resp, body = get(t, ts, "/api/persons/nobody")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apperr.ErrCodePersonNotFound, decodeError(t, body).Code)

	resp, _ = get(t, ts, "/api/persons/-bad")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReload(t *testing.T) {
	src := &countingSource{d: loadSample(t)}
	srv, err := New(context.Background(), Config{Source: src, Name: "counting"})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	first := srv.Dataset()
	src.d = &dataset.Dataset{Persons: first.Persons[:2]}

	resp, body := post(t, ts, "/api/reload", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h healthResponse
	require.NoError(t, json.Unmarshal(body, &h))
	assert.Equal(t, 2, h.Persons)
	assert.Equal(t, int32(2), src.calls.Load())
	assert.NotSame(t, first, srv.Dataset())
}

func TestReload_KeepsSnapshotOnError(t *testing.T) {
	src := &countingSource{d: loadSample(t)}
	srv, err := New(context.Background(), Config{Source: src})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	src.err = errors.New("source offline")
	resp, _ := post(t, ts, "/api/reload", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Len(t, srv.Dataset().Persons, 5)
}

func TestFileSource(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, nil)
	d, err := FileSource{Runner: runner, Path: samplePath}.Dataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Persons, 5)

	_, err = FileSource{Runner: runner, Path: "missing.json"}.Dataset(context.Background())
	assert.True(t, apperr.IsNotFound(err))
}

func TestHooksSeeRoutePattern(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetHTTPHooks(rec)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, pipeline.Options{})
	get(t, ts, "/api/persons/newton")
	get(t, ts, "/api/persons/nobody")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.responses, 2)
	assert.Equal(t, "GET /api/persons/{id} 200", rec.responses[0])
	assert.Equal(t, "GET /api/persons/{id} 404", rec.responses[1])
}

func TestCloneOptions(t *testing.T) {
	start := -100
	base := pipeline.Options{Start: &start, Categories: []string{"Art"}}

	opts, err := optionsFromQuery(map[string][]string{"start": {"200"}, "category": {"Science,Politics"}}, base)
	require.NoError(t, err)
	assert.Equal(t, 200, *opts.Start)
	assert.Equal(t, []string{"Science", "Politics"}, opts.Categories)

	assert.Equal(t, -100, *base.Start)
	assert.Equal(t, []string{"Art"}, base.Categories)
}

// =============================================================================
// Test doubles
// =============================================================================

type failingSource struct{}

func (failingSource) Dataset(context.Context) (*dataset.Dataset, error) {
	return nil, errors.New("unreachable")
}

type countingSource struct {
	d     *dataset.Dataset
	err   error
	calls atomic.Int32
}

func (s *countingSource) Dataset(context.Context) (*dataset.Dataset, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.d, nil
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu        sync.Mutex
	responses []string
}

func (h *recordingHooks) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, fmt.Sprintf("%s %s %d", method, route, status))
}
